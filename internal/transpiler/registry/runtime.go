package registry

// RuntimeConstructors is the descriptor vocabulary of the runtime library.
// Every callee the compiler emits on the library binding is one of these.
var RuntimeConstructors = []string{
	// Primitives
	"any", "number", "boolean", "string", "symbol", "object", "void", "null", "undef",
	// Composites
	"array", "tuple", "union", "intersection", "intersect", "nullable",
	// References
	"ref", "tdz", "flowInto", "this", "typeOf",
	// Signatures
	"function", "param", "rest", "return", "typeParameter",
	// Members
	"property", "staticProperty", "indexer", "callProperty",
	// Declarations
	"type", "class", "extends", "declare",
}

// RuntimeLibraryInfo returns the LibraryInfo for the runtime library
// imported under binding from module.
func RuntimeLibraryInfo(binding, module string) LibraryInfo {
	return LibraryInfo{
		Binding:      binding,
		Module:       module,
		Constructors: RuntimeConstructors,
	}
}
