package main

import (
	"bytes"
	"io"
	"os"

	"github.com/vango-dev/vdiff/internal/errors"
	"github.com/vango-dev/vdiff/pkg/dom"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

// readDocument reads and parses an HTML file. "-" reads stdin.
func readDocument(path string, stdin io.Reader) (*vdom.VNode, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.New(errors.CodeInputUnreadable).
			WithDetailf("cannot read %s", path).
			Wrap(err)
	}

	tree, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New(errors.CodeHTMLParse).
			WithDetailf("cannot parse %s", path).
			Wrap(err)
	}
	return tree, nil
}

// readPair reads the OLD and NEW documents. At most one may be stdin.
func readPair(oldPath, newPath string, stdin io.Reader) (prev, next *vdom.VNode, err error) {
	if oldPath == "-" && newPath == "-" {
		return nil, nil, errors.New(errors.CodeInputUnreadable).
			WithDetail("only one document can be read from stdin")
	}
	if prev, err = readDocument(oldPath, stdin); err != nil {
		return nil, nil, err
	}
	if next, err = readDocument(newPath, stdin); err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}
