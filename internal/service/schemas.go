package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/streetbars/streetbars-api/internal/models"
)

// Submission payloads form a tagged union keyed by entity type. Each variant
// is validated against the same field constraints used for direct entity
// mutation; create proposals additionally require the entity's core fields.

const skillPayloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "title": {"type": "string", "minLength": 1, "maxLength": 255},
    "description": {"type": "string"},
    "level": {"type": "string", "enum": ["beginner", "intermediate", "advanced", "elite"]},
    "difficulty": {"type": "integer", "minimum": 1, "maximum": 10},
    "muscle_groups": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "equipment": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "video_urls": {"type": "array", "items": {"type": "string", "minLength": 1}}
  }
}`

const skillCreateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "skill-payload.json",
  "required": ["title", "level", "difficulty"]
}`

const placePayloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 255},
    "description": {"type": "string"},
    "location": {"type": "string", "maxLength": 255},
    "address": {"type": "string", "maxLength": 512},
    "lat": {"type": "number", "minimum": -90, "maximum": 90},
    "lng": {"type": "number", "minimum": -180, "maximum": 180},
    "amenities": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "equipment": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "photos_urls": {"type": "array", "items": {"type": "string", "minLength": 1}}
  }
}`

const placeCreateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "place-payload.json",
  "required": ["name"]
}`

type payloadSchemas struct {
	skillUpdate *jsonschema.Schema
	skillCreate *jsonschema.Schema
	placeUpdate *jsonschema.Schema
	placeCreate *jsonschema.Schema
}

func newPayloadSchemas() (*payloadSchemas, error) {
	compiler := jsonschema.NewCompiler()
	for name, raw := range map[string]string{
		"skill-payload.json": skillPayloadSchema,
		"skill-create.json":  skillCreateSchema,
		"place-payload.json": placePayloadSchema,
		"place-create.json":  placeCreateSchema,
	} {
		if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	schemas := &payloadSchemas{}
	var err error
	if schemas.skillUpdate, err = compiler.Compile("skill-payload.json"); err != nil {
		return nil, err
	}
	if schemas.skillCreate, err = compiler.Compile("skill-create.json"); err != nil {
		return nil, err
	}
	if schemas.placeUpdate, err = compiler.Compile("place-payload.json"); err != nil {
		return nil, err
	}
	if schemas.placeCreate, err = compiler.Compile("place-create.json"); err != nil {
		return nil, err
	}
	return schemas, nil
}

// Validate checks a raw payload against the schema for its entity/action pair.
func (s *payloadSchemas) Validate(entityType, action string, raw json.RawMessage) error {
	schema := s.schemaFor(entityType, action)
	if schema == nil {
		return fmt.Errorf("%w: unknown entity type %q", ErrInvalidPayload, entityType)
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (s *payloadSchemas) schemaFor(entityType, action string) *jsonschema.Schema {
	switch entityType {
	case models.EntityTypeSkill:
		if action == models.SubmissionActionCreate {
			return s.skillCreate
		}
		return s.skillUpdate
	case models.EntityTypePlace:
		if action == models.SubmissionActionCreate {
			return s.placeCreate
		}
		return s.placeUpdate
	}
	return nil
}
