package cache

import (
	"context"

	"swf-translator/internal/corpus"
)

// FileStore keeps the cache in a corpus JSON file, written on Flush.
type FileStore struct {
	path   string
	corpus *corpus.Corpus
}

// OpenFileStore loads path if it exists.
func OpenFileStore(path string) (*FileStore, error) {
	c, err := corpus.LoadOrNew(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path, corpus: c}, nil
}

func (s *FileStore) Lookup(_ context.Context, source string) (string, bool, error) {
	v, ok := s.corpus.Get(source)
	return v, ok, nil
}

func (s *FileStore) Upsert(_ context.Context, source, translated string) error {
	s.corpus.Set(source, translated)
	return nil
}

func (s *FileStore) All(_ context.Context) (map[string]string, error) {
	all := make(map[string]string, s.corpus.Len())
	for _, p := range s.corpus.Pairs() {
		all[p.Orig] = p.Tran
	}
	return all, nil
}

func (s *FileStore) Flush(_ context.Context) error {
	return s.corpus.Save(s.path)
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}
