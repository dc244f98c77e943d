package regulations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"
	"github.com/pitwall-ai/pitwall/internal/model"
	"github.com/pitwall-ai/pitwall/internal/model/contract"

	"github.com/oklog/ulid/v2"
	"github.com/philippgille/chromem-go"
)

const localAnswerPrompt = "You answer questions about Formula 1 sporting regulations. " +
	"Use only the passages provided below. If the passages do not cover the question, " +
	"say so instead of guessing. Cite the relevant passage numbers in your answer."

// LocalKnowledgeBase answers regulation questions from documents embedded
// into an in-process vector store. It serves as the offline alternative to
// the remote retrieve-and-generate backend.
type LocalKnowledgeBase struct {
	cfg        config.RegulationsConfig
	router     model.Router
	collection *chromem.Collection
	embedModel string
	genModel   string
}

// NewLocalKnowledgeBase builds the store and ingests every .txt and .md file
// under the configured documents directory, one chunk per paragraph.
func NewLocalKnowledgeBase(ctx context.Context, cfg config.RegulationsConfig, models config.ModelsConfig, router model.Router) (*LocalKnowledgeBase, error) {
	name := cfg.Local.Collection
	if name == "" {
		name = config.DefaultLocalCollection
	}

	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "create regulations collection")
	}

	kb := &LocalKnowledgeBase{
		cfg:        cfg,
		router:     router,
		collection: collection,
		embedModel: models.Embedding,
		genModel:   models.Default,
	}

	if err := kb.ingest(ctx, cfg.Local.DocumentsDir); err != nil {
		return nil, err
	}

	return kb, nil
}

func (kb *LocalKnowledgeBase) ingest(ctx context.Context, dir string) error {
	if dir == "" {
		return pitwallErrors.InvalidInput("local regulations backend requires a documents directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return pitwallErrors.Wrap(err, "read regulations documents directory")
	}

	var docs []chromem.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return pitwallErrors.Wrap(err, "read regulations document")
		}

		for _, chunk := range splitChunks(string(raw)) {
			embedding, err := kb.router.RouteEmbedding(ctx, kb.embedModel, chunk)
			if err != nil {
				return pitwallErrors.Wrap(err, "embed regulations chunk")
			}
			docs = append(docs, chromem.Document{
				ID:        ulid.Make().String(),
				Metadata:  map[string]string{"source": entry.Name()},
				Embedding: embedding,
				Content:   chunk,
			})
		}
	}

	if len(docs) == 0 {
		return pitwallErrors.NotFound(fmt.Sprintf("no regulations documents found in %s", dir))
	}

	if err := kb.collection.AddDocuments(ctx, docs, 1); err != nil {
		return pitwallErrors.Wrap(err, "index regulations documents")
	}

	slog.Info("Local regulations knowledge base ready", "chunks", len(docs), "dir", dir)
	return nil
}

// splitChunks breaks a document into paragraph chunks, dropping fragments too
// short to carry meaning.
func splitChunks(text string) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) < 40 {
			continue
		}
		chunks = append(chunks, para)
	}
	return chunks
}

// Answer retrieves the closest passages and asks the default model to compose
// a grounded answer from them.
func (kb *LocalKnowledgeBase) Answer(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pitwallErrors.InvalidInput("regulations query is empty")
	}

	settings := SettingsFor(kb.cfg, question)
	start := time.Now()

	vector, err := kb.router.RouteEmbedding(ctx, kb.embedModel, question)
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "embed regulations query")
	}

	limit := kb.cfg.Local.TopK
	if limit <= 0 {
		limit = config.DefaultLocalTopK
	}
	if count := kb.collection.Count(); limit > count {
		limit = count
	}

	results, err := kb.collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "query regulations collection")
	}
	if len(results) == 0 {
		return nil, pitwallErrors.NotFound("no regulation passages matched the query")
	}

	var prompt strings.Builder
	var citations []Citation
	for i, res := range results {
		fmt.Fprintf(&prompt, "Passage %d (from %s):\n%s\n\n", i+1, res.Metadata["source"], res.Content)
		citations = append(citations, Citation{
			Source:  res.Metadata["source"],
			Excerpt: excerpt(res.Content),
		})
	}
	fmt.Fprintf(&prompt, "Question: %s", question)

	resp, err := kb.router.Route(ctx, kb.genModel, contract.CompletionRequest{
		Messages: []contract.Message{
			{Role: "system", Content: localAnswerPrompt},
			{Role: "user", Content: prompt.String()},
		},
		Temperature:  settings.Temperature,
		MaxTokens:    settings.MaxTokens,
		DisableTools: true,
	})
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "generate regulations answer")
	}

	return &Answer{
		Text:      resp.Content,
		Citations: citations,
		Attempts:  1,
		Latency:   time.Since(start),
		Settings:  settings,
	}, nil
}

func excerpt(content string) string {
	const maxLen = 200
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "..."
}
