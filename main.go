// Command bl2u1 rewrites Bambu Lab 3MF print packages so the Snapmaker U1
// accepts them.
package main

import "github.com/josuanbn/bl2u1/cmd"

func main() {
	cmd.Execute()
}
