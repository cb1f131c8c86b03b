// Command ds-proxy is a transparent streaming encryption proxy for
// object storage: it encrypts PUT bodies on their way to an upstream
// store and decrypts GET bodies on their way back, or can be run
// directly as a file-to-file codec.
package main

import "github.com/betagouv/ds-proxy/cmd"

func main() {
	cmd.Execute()
}
