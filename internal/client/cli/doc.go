// Package cli implements the interactive GophGate command-line client.
//
// The REPL reads one command per line. Arguments follow the command name,
// passwords are always prompted for without echo. The access token issued
// by "login" lives in memory only and is dropped by "logout" or on exit.
package cli
