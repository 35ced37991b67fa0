// Package bootstrap assembles the boot-time program of a compute instance.
//
// A program is an ordered list of directives: shell commands and inline file
// writes. Steps are expanded in the order the author declared them. A
// Directory step reads every file under a source directory and emits the
// files in lexical name order, whatever order the source lists them in.
//
// Execution is the executor's job, but every executor must honour the same
// contract: directives run strictly in order and the first failing shell
// command stops the program. Program.Script and Program.Run both implement it.
package bootstrap
