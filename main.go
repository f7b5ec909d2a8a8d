package main

import (
	"github.com/lehigh-university-libraries/opacbridge/cmd"

	// Register record source backends
	_ "github.com/lehigh-university-libraries/opacbridge/source/legacy"
	_ "github.com/lehigh-university-libraries/opacbridge/source/sample"
	_ "github.com/lehigh-university-libraries/opacbridge/source/vocabulary"
)

func main() {
	cmd.Execute()
}
