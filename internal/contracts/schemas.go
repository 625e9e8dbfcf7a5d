package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"rental-client/internal/contracts/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const schemasRoot = "requests"

// Ключи схем в формате "<Name>Request/<version>".
const (
	ListingDraftSchema   = "ListingDraftRequest/1.0.0"
	CredentialsSchema    = "CredentialsRequest/1.0.0"
	RecommendationSchema = "RecommendationRequest/1.0.0"
	ProfileUpdateSchema  = "ProfileUpdateRequest/1.0.0"
)

var (
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
	compileOnce     sync.Once
)

// loadSchemas компилирует все схемы из встроенной ФС один раз.
func loadSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchemas, compileErr = compileAll(schemas.RequestsFS)
	})
	return compiledSchemas, compileErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	// Добавляем все схемы как ресурсы, чтобы они могли ссылаться друг на друга через `$ref`
	err := fs.WalkDir(fsys, schemasRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking and adding schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path %s", path)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует путь вида "requests/listing-draft/v1.json"
// в ключ вида "ListingDraftRequest/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, schemasRoot+"/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		nameBuilder.WriteString(caser.String(p))
	}
	nameBuilder.WriteString("Request")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"

	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// ValidationError - тело запроса не соответствует схеме.
type ValidationError struct {
	Schema string
	Cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request does not match %s: %v", e.Schema, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate проверяет тело запроса по схеме с заданным ключом.
func Validate(key string, body []byte) error {
	compiled, err := loadSchemas()
	if err != nil {
		return err
	}
	schema, ok := compiled[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	// Распарсить JSON в универсальный тип interface{}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return &ValidationError{Schema: key, Cause: fmt.Errorf("body is not a valid JSON: %w", err)}
	}

	if err := schema.Validate(v); err != nil {
		return &ValidationError{Schema: key, Cause: err}
	}
	return nil
}

// Keys возвращает ключи всех скомпилированных схем.
func Keys() ([]string, error) {
	compiled, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(compiled))
	for k := range compiled {
		keys = append(keys, k)
	}
	return keys, nil
}
