package translator

// TypeSpec is the translator's flattened representation of a type
// expression: it carries enough syntax for the VM's type registry to
// resolve it into a Klass without the VM needing to depend on the ast
// package.
type TypeSpec struct {
	Kind string // "reference", "generic", "record", "union", "constant"

	// reference / generic
	Name   string
	Params []*TypeSpec

	// record
	Fields []FieldSpec

	// union
	Members []*TypeSpec

	// constant
	Literal Stmt
}

// FieldSpec is one field of a record TypeSpec.
type FieldSpec struct {
	Name string
	Type *TypeSpec
}
