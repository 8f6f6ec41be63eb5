package main

import "github.com/dt-pm-tools/jira-epics/cmd"

func main() {
	cmd.Execute()
}
