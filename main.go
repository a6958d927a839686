package main

import (
	"github.com/lehigh-university-libraries/oai-jats/cmd"
)

func main() {
	cmd.Execute()
}
