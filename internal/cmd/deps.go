package cmd

import (
	"os"

	"github.com/salmonumbrella/pci-table/internal/hostdb"
)

var (
	executablePath = os.Executable
	openHostDB     = hostdb.Open
)
