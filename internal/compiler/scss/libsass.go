package scss

import (
	"path/filepath"

	"github.com/bep/golibsass/libsass"
)

var _ Transpiler = LibSass{}

// LibSass 通过 libsass（cgo）完成转换。
type LibSass struct{}

func (LibSass) Transpile(req Request) (Response, error) {
	opts := libsass.Options{
		OutputStyle:  libsass.ParseOutputStyle(req.OutputStyle),
		Precision:    req.Precision,
		IncludePaths: req.IncludePaths,
		SassSyntax:   req.IndentedSyntax,
	}
	if req.SourceMap {
		// source map 与 CSS 写在同一目录，sources 用相对路径引用输入。
		opts.SourceMapOptions = libsass.SourceMapOptions{
			Filename:   filepath.Base(req.SourceMapPath),
			InputPath:  req.InputPath,
			OutputPath: req.OutputPath,
			Contents:   true,
		}
	}

	t, err := libsass.New(opts)
	if err != nil {
		return Response{}, err
	}
	res, err := t.Execute(req.Source)
	if err != nil {
		return Response{}, err
	}
	return Response{CSS: res.CSS, SourceMap: res.SourceMapContent}, nil
}
