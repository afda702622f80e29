package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	werrors "github.com/PolarWolf314/wrench/internal/errors"
	"github.com/PolarWolf314/wrench/internal/models"
	"github.com/PolarWolf314/wrench/internal/validators"
)

const resourcesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "password"],
    "additionalProperties": false,
    "properties": {
      "name":        {"type": "string", "minLength": 1},
      "uri":         {"type": "string"},
      "username":    {"type": "string"},
      "password":    {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "tags":        {"type": "array", "items": {"type": "string"}}
    }
  }
}`

var compiledSchema = mustCompileSchema(resourcesSchema)

func mustCompileSchema(definition string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid import schema: %v", err))
	}
	return schema
}

type jsonResource struct {
	Name        string   `json:"name"`
	URI         string   `json:"uri"`
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ParseJSON reads an array of resource objects. tags are added to the tags
// each object lists. Records are numbered from 1 in errors.
func ParseJSON(data []byte, path string, tags []string) ([]models.Resource, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", werrors.ErrImportParse, path, err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return nil, fmt.Errorf("%w: %s: %s", werrors.ErrImportParse, path, strings.Join(messages, "; "))
	}

	var records []jsonResource
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", werrors.ErrImportParse, path, err)
	}

	resources := make([]models.Resource, 0, len(records))
	for i, rec := range records {
		resource := models.Resource{
			Name:        rec.Name,
			URI:         rec.URI,
			Username:    rec.Username,
			Secret:      rec.Password,
			Description: rec.Description,
			Tags:        NormalizeTags(append(append([]string(nil), rec.Tags...), tags...)),
		}
		if err := validators.ValidateNewResource(resource); err != nil {
			return nil, &RecordError{Path: path, Line: i + 1, Err: err}
		}
		resources = append(resources, resource)
	}
	return resources, nil
}
