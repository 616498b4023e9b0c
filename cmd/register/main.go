package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/attendance-register/internal/cli"
)

// @title Attendance Register API
// @version 1.0.0
// @description Students, daily attendance records and register projections
// @BasePath /api/v1
// @schemes http

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
