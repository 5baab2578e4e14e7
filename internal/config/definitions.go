package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/John-Robertt/webcompile/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// tomlFile 是 TOML 配置的结构：每个 [[Items]] 表对应 JSON 数组中的一项。
type tomlFile struct {
	Items []tomlItem `toml:"Items"`
}

type tomlItem struct {
	InputFiles []string            `toml:"InputFiles"`
	OutputFile string              `toml:"OutputFile"`
	Type       domain.CompilerType `toml:"Type"`
	Options    map[string]any      `toml:"Options"`
}

// ReadDefinitions 读取一个配置文件，返回其中的全部定义（保持数组顺序）。
//
// 文件不存在返回 config_not_found；任何读取/解析错误返回 config_invalid（整个文件作废，不做部分解析）。
// 扩展名为 .toml 时按 TOML 解析，否则按 JSON 解析。
func ReadDefinitions(path string) ([]domain.Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &Error{Code: ErrCodeNotFound, Path: path, Err: err}
		}
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	var defs []domain.Definition
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		defs, err = decodeTOML(b)
	} else {
		defs, err = decodeJSON(b)
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}

	for i := range defs {
		defs[i].ConfigFile = path
		defs[i].Index = i
		if defs[i].Type.IsAuto() {
			defs[i].Type = domain.TypeAuto
		}
	}
	return defs, nil
}

func decodeJSON(b []byte) ([]domain.Definition, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var defs []domain.Definition
	if err := json.Unmarshal(b, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func decodeTOML(b []byte) ([]domain.Definition, error) {
	var f tomlFile
	if err := toml.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	defs := make([]domain.Definition, 0, len(f.Items))
	for i, it := range f.Items {
		settings, err := domain.SettingsFromMap(it.Options)
		if err != nil {
			return nil, fmt.Errorf("Items[%d]：%w", i, err)
		}
		defs = append(defs, domain.Definition{
			InputFiles: it.InputFiles,
			OutputFile: it.OutputFile,
			Type:       it.Type,
			Options:    settings,
		})
	}
	return defs, nil
}
