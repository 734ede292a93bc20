package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestMain(m *testing.M) {
	// A local .env can supply optional API tokens; its absence is fine in CI.
	_ = godotenv.Load()
	os.Exit(m.Run())
}
