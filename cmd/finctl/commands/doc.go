// Package commands implements finctl, the offline companion of the API:
// the calculators, validators and date helpers from the command line, plus
// database and rate-cache maintenance.
package commands
