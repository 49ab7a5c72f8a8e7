// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build debug
// +build debug

package dvn

import (
	"log"
	"os"
)

const _DEBUG bool = true
const _LOGLEVEL int = 1

// ******************************************************************************************************

func init() {
	log.SetOutput(os.Stdout)
}

// ******************************************************************************************************

func (fs *FactorSet) logFactorSet() {
	if fs.error != nil {
		log.Printf("ERROR: %s\n", fs.error)
	}
	for k, f := range fs.factors {
		log.Printf("%-4d vars: %-30s head: %-12s size: %-6d role: %s ext: %s\n",
			k, f.vars, f.head, f.Size(), f.role, f.ext)
	}
}
