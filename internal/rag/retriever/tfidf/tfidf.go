// Package tfidf is a small TF-IDF vectorizer over unigrams and bigrams with
// smoothed IDF and L2-normalised rows.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned by Fit when no term survives tokenisation.
var ErrEmptyVocabulary = errors.New("tfidf: empty vocabulary; documents contain only stop words or no tokens")

const DefaultMaxFeatures = 1000

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer learns a vocabulary from a corpus and turns texts into sparse
// TF-IDF vectors.
type Vectorizer struct {
	maxFeatures int
	stopwords   map[string]struct{}
	vocabulary  map[string]int
	idf         []float64
}

type Vector map[int]float64

func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		maxFeatures: maxFeatures,
		stopwords:   englishStopwords(),
	}
}

func (v *Vectorizer) VocabularySize() int { return len(v.vocabulary) }

// Fit builds the vocabulary from corpus, keeping the maxFeatures terms with the
// highest total count (ties broken alphabetically).
func (v *Vectorizer) Fit(corpus []string) error {
	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range v.terms(doc) {
			total[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(total) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Transform returns the L2-normalised TF-IDF vector of text. Fit must have
// succeeded first.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	for _, term := range v.terms(text) {
		if idx, ok := v.vocabulary[term]; ok {
			vec[idx]++
		}
	}
	norm := 0.0
	for idx, count := range vec {
		w := count * v.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// Cosine of two normalised vectors is their dot product.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	dot := 0.0
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}

// terms yields unigrams followed by bigrams of adjacent non-stop tokens.
func (v *Vectorizer) terms(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := v.stopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func englishStopwords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "as", "at",
		"be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
		"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
		"same", "she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while", "who", "whom", "why", "will", "with", "would",
		"you", "your", "yours", "yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
