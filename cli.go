//go:build cli
// +build cli

package main

import (
	_ "github.com/stefanologica/firebear-importexport/custom"

	"github.com/stefanologica/firebear-importexport/cmd"
	"github.com/stefanologica/firebear-importexport/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
