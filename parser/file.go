package parser

import (
	"github.com/lookbusy1344/z33-asm/fsys"
	"github.com/lookbusy1344/z33-asm/preprocess"
)

// ParseFile is the top-level entry point: it preprocesses root through fs
// (resolving every #include along the way) and parses the flattened result
// into a Program. The returned Provenance lets a diagnostics renderer map
// any AST node's RelativeLocation back to the original file and line it
// came from.
func ParseFile(fs fsys.Filesystem, root string) (*Program, *preprocess.Provenance, error) {
	pp := preprocess.New(fs)
	text, prov, err := pp.Run(root)
	if err != nil {
		return nil, nil, err
	}

	program, err := ParseProgram(text)
	if err != nil {
		return nil, prov, err
	}

	return program, prov, nil
}
