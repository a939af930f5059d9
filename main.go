/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/pdf-rag-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional, config and flags cover everything it sets
	godotenv.Load()
}
