package main

import "ib01/process/sanitize"

func main() {
	sanitize.Run()
}
