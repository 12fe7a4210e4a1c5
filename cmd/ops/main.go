package main

import (
	"log"

	tool "github.com/logiscore/logiscore-backend/internal/tools/ops"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
