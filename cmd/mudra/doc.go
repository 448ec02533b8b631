// Command mudra runs the hand gesture recognizer.
//
// serve starts the camera pipeline, the HTTP API and the tray menu. replay
// feeds recorded landmark frames through the recognizer offline. captures
// lists and deletes labelled sessions, and config manages the TOML file.
package main
