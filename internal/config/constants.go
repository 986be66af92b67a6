package config

// FixtureFileExt is the extension recognized for program fixtures handed
// to the CLI collaborator. The textual surface grammar is out of scope
// for the core (see spec §1); a fixture is a YAML-encoded, already
// elaborated term tree rather than source text to be parsed.
const FixtureFileExt = ".fixture.yaml"

// FixtureFileExtensions are all recognized fixture file extensions.
var FixtureFileExtensions = []string{".fixture.yaml", ".fixture.yml"}

// MaxReductionSteps is a bound for the evaluator's step counter. No
// code in this module reads it: the counter is not capped, reduction
// has no step limit, and the CLI has no option that sets one.
const MaxReductionSteps = 1 << 32

// IndyContextLabel is the context string a label carries before any
// sub-contract position has set one (label.New leaves Context at this
// value). goDom, goCodom and goField replace it. A blame raised before
// any of them ran, such as a base-type check directly at an assume
// site, still carries it, and blame reporting then names the accused
// endpoint instead.
const IndyContextLabel = ""
