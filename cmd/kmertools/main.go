package main

import (
	"kmertools/internal/app"
	"kmertools/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
