package issues

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"newslens/internal/nlp"
)

// Vectorizer builds TF-IDF vectors from the nouns of each document.
type Vectorizer struct {
	tokenizer nlp.Tokenizer
	minDF     int     // Minimum number of documents a term must appear in
	maxDF     float64 // Maximum share of documents a term may appear in
}

// TermMatrix is a fitted TF-IDF space. Row i of Weights belongs to document i
// and column j to Vocabulary[j]. Weights is nil when the vocabulary is empty.
type TermMatrix struct {
	Vocabulary []string
	Weights    *mat.Dense
}

// NewVectorizer creates a vectorizer with document frequency bounds.
func NewVectorizer(tokenizer nlp.Tokenizer, minDF int, maxDF float64) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer, minDF: minDF, maxDF: maxDF}
}

// FitTransform learns the vocabulary of texts and returns their weights.
// Terms kept have a document frequency of at least minDF and at most
// maxDF*len(texts). The vocabulary is sorted; idf is smoothed as
// ln((1+n)/(1+df))+1 and every non-empty row has unit length.
func (v *Vectorizer) FitTransform(ctx context.Context, texts []string) (*TermMatrix, error) {
	counts := make([]map[string]int, len(texts))
	df := make(map[string]int)

	for i, text := range texts {
		tokens, err := v.tokenizer.Nouns(ctx, strings.ToLower(text))
		if err != nil {
			return nil, fmt.Errorf("failed to tokenize document %d: %w", i, err)
		}
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			df[tok]++
		}
		counts[i] = tf
	}

	n := len(texts)
	maxCount := v.maxDF * float64(n)
	var vocabulary []string
	for term, freq := range df {
		if freq < v.minDF || float64(freq) > maxCount {
			continue
		}
		vocabulary = append(vocabulary, term)
	}
	sort.Strings(vocabulary)

	matrix := &TermMatrix{Vocabulary: vocabulary}
	if n == 0 || len(vocabulary) == 0 {
		return matrix, nil
	}

	idf := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		idf[j] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	weights := mat.NewDense(n, len(vocabulary), nil)
	for i, tf := range counts {
		row := weights.RawRowView(i)
		for j, term := range vocabulary {
			row[j] = float64(tf[term]) * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	matrix.Weights = weights
	return matrix, nil
}

// CosineSimilarity returns the pairwise cosine similarity of the rows.
// Rows are unit length or zero, so this is W·Wᵀ.
func (m *TermMatrix) CosineSimilarity() *mat.Dense {
	var sim mat.Dense
	sim.Mul(m.Weights, m.Weights.T())
	return &sim
}

// Centroid returns the mean of the given rows.
func (m *TermMatrix) Centroid(rows []int) []float64 {
	_, cols := m.Weights.Dims()
	mean := make([]float64, cols)
	for _, r := range rows {
		floats.Add(mean, m.Weights.RawRowView(r))
	}
	if len(rows) > 0 {
		floats.Scale(1/float64(len(rows)), mean)
	}
	return mean
}

// TopTerm returns the term with the highest weight in vec. Ties go to the
// lowest vocabulary index.
func (m *TermMatrix) TopTerm(vec []float64) string {
	return m.Vocabulary[floats.MaxIdx(vec)]
}
