package model

import "strings"

// EntityType is the fixed vocabulary of biomedical entity categories
type EntityType string

const (
	EntityDisease   EntityType = "Disease"
	EntityDrug      EntityType = "Drug/Compound"
	EntityGene      EntityType = "Gene/Protein"
	EntitySymptom   EntityType = "Symptom"
	EntityProcedure EntityType = "MedicalProcedure"
	EntityAnatomy   EntityType = "Anatomy/BodyPart"
	EntityPathway   EntityType = "Pathway"
	EntityUnknown   EntityType = "Unknown"
)

// ParseEntityType maps a free-form label (e.g., from an LLM response) onto the
// fixed vocabulary. Unrecognized labels become EntityUnknown rather than
// failing the extraction.
func ParseEntityType(label string) EntityType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "disease", "disorder", "condition":
		return EntityDisease
	case "drug", "compound", "drug/compound", "chemical", "medication":
		return EntityDrug
	case "gene", "protein", "gene/protein", "gene_or_gene_product":
		return EntityGene
	case "symptom", "sign":
		return EntitySymptom
	case "procedure", "medicalprocedure", "medical_procedure", "treatment":
		return EntityProcedure
	case "anatomy", "body_part", "anatomy/bodypart", "organ":
		return EntityAnatomy
	case "pathway":
		return EntityPathway
	default:
		return EntityUnknown
	}
}

// Entity is a named, typed object extracted from a text chunk
type Entity struct {
	Name          string     `json:"name"`
	Type          EntityType `json:"type"`
	SourceChunkID string     `json:"source_chunk_id"` // Back-reference, never ownership
	StartChar     int        `json:"start_char,omitempty"`
	EndChar       int        `json:"end_char,omitempty"`
}

// Key identifies an entity for deduplication: two extractions with the same
// (name, type) pair collapse into one graph node.
func (e Entity) Key() string {
	return e.Name + "|" + string(e.Type)
}

// RelationType is the fixed vocabulary of relation categories
type RelationType string

const (
	RelationTreats         RelationType = "TREATS"
	RelationCauses         RelationType = "CAUSES"
	RelationAssociatedWith RelationType = "ASSOCIATED_WITH"
	RelationInteractsWith  RelationType = "INTERACTS_WITH"
	RelationManifestsAs    RelationType = "MANIFESTS_AS"
	RelationDiagnoses      RelationType = "DIAGNOSES"
	RelationLocatedIn      RelationType = "LOCATED_IN"
	RelationParticipatesIn RelationType = "PARTICIPATES_IN"
	RelationInhibits       RelationType = "INHIBITS"
	RelationActivates      RelationType = "ACTIVATES"

	// RelationSequential links adjacent chunks of the same document
	RelationSequential RelationType = "SEQUENTIAL"
)

// Bidirectional reports whether the relation type carries no inherent
// direction. How such relations are materialized (mirrored pair vs. a single
// undirected edge) is a graph-wide configuration choice, not decided here.
func (t RelationType) Bidirectional() bool {
	switch t {
	case RelationAssociatedWith, RelationInteractsWith:
		return true
	}
	return false
}

// Relation is a typed association between two entities, traceable to the
// chunk it was derived from
type Relation struct {
	SourceName    string       `json:"source_name"`
	SourceType    EntityType   `json:"source_type"`
	TargetName    string       `json:"target_name"`
	TargetType    EntityType   `json:"target_type"`
	Type          RelationType `json:"type"`
	SourceChunkID string       `json:"source_chunk_id"`
}

// SourceKey returns the dedup key of the relation's source entity.
func (r Relation) SourceKey() string { return r.SourceName + "|" + string(r.SourceType) }

// TargetKey returns the dedup key of the relation's target entity.
func (r Relation) TargetKey() string { return r.TargetName + "|" + string(r.TargetType) }
