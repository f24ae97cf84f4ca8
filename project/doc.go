//Package project ties together the phases of a goqsar project: field computation,
//model building and cross-validation, over a data set and a configuration.
//Each project works in its own temporary directory, which is removed on Close,
//or when the process receives SIGINT or SIGTERM, if TrapSignals was called.
package project
