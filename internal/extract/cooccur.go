package extract

import "github.com/mberjans/iffc-chatbot-jules/internal/model"

// CooccurrenceRelations derives relations from entity co-occurrence: every
// unordered pair of distinct entities extracted from the same chunk becomes
// one ASSOCIATED_WITH relation tagged with that chunk. Specific relation
// classification is an extraction-model concern, not done here.
func CooccurrenceRelations(entities []model.Entity) []model.Relation {
	byChunk := make(map[string][]model.Entity)
	var chunkOrder []string
	for _, e := range entities {
		if _, seen := byChunk[e.SourceChunkID]; !seen {
			chunkOrder = append(chunkOrder, e.SourceChunkID)
		}
		byChunk[e.SourceChunkID] = append(byChunk[e.SourceChunkID], e)
	}

	var relations []model.Relation
	for _, chunkID := range chunkOrder {
		group := byChunk[chunkID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Key() == group[j].Key() {
					continue
				}
				relations = append(relations, model.Relation{
					SourceName:    group[i].Name,
					SourceType:    group[i].Type,
					TargetName:    group[j].Name,
					TargetType:    group[j].Type,
					Type:          model.RelationAssociatedWith,
					SourceChunkID: chunkID,
				})
			}
		}
	}
	return relations
}
