// Command tsreflect compiles TypeScript type declarations into runtime type
// descriptors.
package main

import "martianoff/tsreflect/cmd/tsreflect/commands"

func main() {
	commands.Execute()
}
