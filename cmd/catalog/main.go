// Command catalog manages the Colombian coffee variety catalog from the
// terminal.
package main

func main() {
	Execute()
}
