// nagochat is a terminal chat client for LLM providers.
package main

import "github.com/linanwx/nagochat/cmd"

func main() {
	cmd.Execute()
}
