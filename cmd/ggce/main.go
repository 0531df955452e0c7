// Command ggce builds closed equation hierarchies for the generalized
// Green's function cluster expansion.
package main

import "github.com/papapumpkin/ggce/cmd"

func main() {
	cmd.Execute()
}
