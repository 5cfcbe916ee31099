package main

import (
	"github.com/jobsync/jobsync/cmd/jobsync/commands"
	_ "github.com/jobsync/jobsync/cmd/jobsync/commands/render"
	_ "github.com/jobsync/jobsync/cmd/jobsync/commands/sync"
)

func main() {
	commands.Execute()
}
