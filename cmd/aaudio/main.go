// Command aaudio plays, captures and inspects AAudio streams on Android devices.
package main

func main() {
	Execute()
}
