package storage

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// QEntry is the persisted aggregate for one position: the backed-up value sum
// from the side to move and the number of backups.
type QEntry struct {
	ValueSum float64 `json:"value_sum"`
	Visits   uint32  `json:"visits"`
}

// QTable maps a Zobrist position hash to its aggregate value.
type QTable map[uint64]QEntry

// Clone returns a shallow copy of the table.
func (q QTable) Clone() QTable {
	return maps.Clone(q)
}

// SortedKeys returns the table keys in ascending order.
func (q QTable) SortedKeys() []uint64 {
	keys := maps.Keys(q)
	slices.Sort(keys)
	return keys
}

// ReadQTable parses whitespace separated "hash value_sum visits" triples until
// EOF. On a malformed token it returns the entries parsed so far together with
// the error.
func ReadQTable(r io.Reader) (QTable, error) {
	q := make(QTable)

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var fields [3]string
	n := 0
	for sc.Scan() {
		fields[n] = sc.Text()
		n++
		if n < len(fields) {
			continue
		}
		n = 0

		hash, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return q, errors.Wrapf(err, "qtable entry %d: bad hash", len(q))
		}
		sum, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return q, errors.Wrapf(err, "qtable entry %d: bad value sum", len(q))
		}
		visits, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return q, errors.Wrapf(err, "qtable entry %d: bad visit count", len(q))
		}
		q[hash] = QEntry{ValueSum: sum, Visits: uint32(visits)}
	}
	if err := sc.Err(); err != nil {
		return q, errors.Wrap(err, "reading qtable")
	}
	if n != 0 {
		return q, errors.Errorf("qtable entry %d: truncated after %d fields", len(q), n)
	}
	return q, nil
}

// WriteQTable writes one "hash value_sum visits" line per entry, ordered by
// hash so that equal tables produce equal files.
func WriteQTable(w io.Writer, q QTable) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, k := range q.SortedKeys() {
		e := q[k]
		buf = buf[:0]
		buf = strconv.AppendUint(buf, k, 10)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, e.ValueSum, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(e.Visits), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrap(err, "writing qtable")
		}
	}
	return errors.Wrap(bw.Flush(), "flushing qtable")
}

// LoadQTableFile reads a Q-table file. A missing file yields an empty table
// and no error.
func LoadQTableFile(path string) (QTable, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("qtable-file-missing")
		return make(QTable), nil
	}
	if err != nil {
		return make(QTable), errors.Wrapf(err, "opening qtable %s", path)
	}
	defer f.Close()

	q, err := ReadQTable(f)
	log.Debug().Str("path", path).Int("entries", len(q)).Msg("qtable-loaded")
	if err != nil {
		return q, errors.Wrapf(err, "loading qtable %s", path)
	}
	return q, nil
}

// SaveQTableFile overwrites path with the table, creating the parent
// directory when needed.
func SaveQTableFile(path string, q QTable) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating qtable %s", path)
	}
	if err := WriteQTable(f, q); err != nil {
		f.Close()
		return errors.Wrapf(err, "saving qtable %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing qtable %s", path)
	}

	log.Debug().Str("path", path).Int("entries", len(q)).Msg("qtable-saved")
	return nil
}
