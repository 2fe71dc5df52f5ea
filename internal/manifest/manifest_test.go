package manifest

import (
	"io"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRecordEncoding(t *testing.T) {
	r := Record{Index: 42, Name: "042.jpg", Offset: 1 << 33, Size: 1536, Blocks: 3}

	got, err := Unmarshal(Marshal(r))

	require.NoError(t, err)
	if diff := cmp.Diff(r, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := Marshal(Record{Index: 1, Name: "001.jpg"})
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "from a newer writer")

	got, err := Unmarshal(b)

	require.NoError(t, err)
	assert.Equal(t, "001.jpg", got.Name)
}

func TestUnmarshalTruncated(t *testing.T) {
	b := Marshal(Record{Index: 1, Name: "001.jpg", Size: 512})

	_, err := Unmarshal(b[:len(b)-1])

	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestKeyOrdersByIndex(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, Key(1))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 0}, Key(256))
	assert.Len(t, Key(^uint32(0)), 8)
}

func TestStorePutAndList(t *testing.T) {
	store, err := Open(StoreConfig{Path: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)
	defer store.Close()

	want := []Record{
		{Index: 0, Name: "000.jpg", Offset: 512, Size: 1024, Blocks: 2},
		{Index: 1, Name: "001.jpg", Offset: 1536, Size: 512, Blocks: 1},
		{Index: 300, Name: "300.jpg", Offset: 1 << 20, Size: 700, Blocks: 2},
	}
	// Inserted out of order; listing follows the index.
	for _, i := range []int{2, 0, 1} {
		require.NoError(t, store.Put(want[i]))
	}

	got, err := store.Records()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	one, err := store.Get(300)
	require.NoError(t, err)
	assert.Equal(t, want[2], one)
}

func TestStoreOverwritesIndex(t *testing.T) {
	store, err := Open(StoreConfig{Path: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(Record{Index: 0, Name: "000.jpg", Size: 1}))
	require.NoError(t, store.Put(Record{Index: 0, Name: "000.jpg", Size: 2}))

	got, err := store.Records()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].Size)
}

func TestStoreReset(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(StoreConfig{Path: dir, Logger: quietLogger()})
	require.NoError(t, err)
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, store.Put(Record{Index: i, Name: "old"}))
	}
	require.NoError(t, store.Close())

	store, err = Open(StoreConfig{Path: dir, Logger: quietLogger()})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Reset())
	require.NoError(t, store.Put(Record{Index: 0, Name: "000.jpg", Size: 512, Blocks: 1}))

	got, err := store.Records()
	require.NoError(t, err)
	assert.Equal(t, []Record{{Index: 0, Name: "000.jpg", Size: 512, Blocks: 1}}, got)
}

func TestStoreGetMissing(t *testing.T) {
	store, err := Open(StoreConfig{Path: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(7)
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(StoreConfig{})
	assert.Error(t, err)
}
