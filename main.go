/*
Copyright © 2026 JACOB ARTHURS
*/
package main

import "github.com/jacobarthurs/pgpev/cmd"

func main() {
	cmd.Execute()
}
