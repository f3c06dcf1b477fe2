// Package main provides the multiquadlet-generator binary, a systemd
// generator shim that expands composite Quadlet files and forwards the
// unit set to the Podman Quadlet generator.
package main

func main() {
	Execute()
}
