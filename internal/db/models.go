package db

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

// WikiSection is one embedded section document. Oversized sections are
// stored as several parts sharing a position.
type WikiSection struct {
	bun.BaseModel `bun:"table:wiki_sections"`

	ID             string          `bun:"id,pk"` // sha256(lang|page_title|position|part)
	Lang           string          `bun:"lang"`
	PageTitle      string          `bun:"page_title"`
	Title          string          `bun:"title"` // breadcrumb
	Position       int             `bun:"position"`
	Part           int             `bun:"part"`
	Content        string          `bun:"content"`
	SourceURL      *string         `bun:"source_url,nullzero"`
	Query          string          `bun:"query"` // wikipedia query that found the page
	Embedding      pgvector.Vector `bun:"embedding,type:vector"`
	EmbeddingModel string          `bun:"embedding_model"`
	UpdatedAt      time.Time       `bun:"updated_at,nullzero,default:now()"`
}

func SectionID(lang, pageTitle string, position, part int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", lang, pageTitle, position, part)))
	return hex.EncodeToString(sum[:])
}
