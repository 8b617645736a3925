package csvlog

import (
	"FlowTagger/internal/errors"
	"FlowTagger/internal/model"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadRows(t *testing.T) {
	reader, err := NewReader("../../test/data/network_traffic.csv", "dstport", "protocol")
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, []string{"srcport", "dstport", "protocol", "action"}, reader.Header())

	var rows []model.Row
	require.NoError(t, reader.ReadRows(func(row model.Row) error {
		rows = append(rows, row)
		return nil
	}))

	require.Len(t, rows, 14)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, map[string]string{
		"srcport":  "49153",
		"dstport":  "443",
		"protocol": "6",
		"action":   "ACCEPT",
	}, rows[0].Fields)
	assert.Equal(t, 15, rows[13].Line)
}

func TestReader_NormalizesHeaderAndValues(t *testing.T) {
	src := "DstPort , Protocol,TAG\n   25,  tcp , Email \n\n          \n443,tcp,web\n"
	reader, err := NewReaderFrom("mapping.csv", strings.NewReader(src), "dstport", "protocol", "tag")
	require.NoError(t, err)

	row, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, map[string]string{"dstport": "25", "protocol": "tcp", "tag": "Email"}, row.Fields)

	row, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, 5, row.Line)
	assert.Equal(t, "443", row.Fields["dstport"])

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, reader.Close())
}

func TestReader_ShortRow(t *testing.T) {
	reader, err := NewReaderFrom("flows.csv", strings.NewReader("srcport,dstport,protocol\n1000,80\n"))
	require.NoError(t, err)

	row, err := reader.Next()
	require.NoError(t, err)
	_, ok := row.Get("protocol")
	assert.False(t, ok)
	v, ok := row.Get("dstport")
	assert.True(t, ok)
	assert.Equal(t, "80", v)
}

func TestReader_MissingColumn(t *testing.T) {
	_, err := NewReaderFrom("flows.csv", strings.NewReader("srcport,port,protocol\n1,2,6\n"), "dstport", "protocol")
	require.Error(t, err)
	assert.Equal(t, errors.KindMalformedRecord, errors.GetKind(err))
	attrs := errors.GetAttributes(err)
	assert.Equal(t, "dstport", attrs["field"])
	assert.Equal(t, 1, attrs["line"])
	assert.Equal(t, "flows.csv", attrs["file"])
}

func TestReader_EmptyFile(t *testing.T) {
	reader, err := NewReaderFrom("empty.csv", strings.NewReader(""), "dstport", "protocol", "tag")
	require.NoError(t, err)
	assert.Empty(t, reader.Header())

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)

	seen := 0
	require.NoError(t, reader.ReadRows(func(model.Row) error {
		seen++
		return nil
	}))
	assert.Zero(t, seen)
}

func TestReader_EmptyColumnsRowIsReturned(t *testing.T) {
	src := "srcport,dstport,protocol,action\n1,443,6,A\n,,,\n2,22,6,A\n"
	reader, err := NewReaderFrom("flows.csv", strings.NewReader(src), "dstport", "protocol")
	require.NoError(t, err)

	var rows []model.Row
	require.NoError(t, reader.ReadRows(func(row model.Row) error {
		rows = append(rows, row)
		return nil
	}))

	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, map[string]string{"srcport": "", "dstport": "", "protocol": "", "action": ""}, rows[1].Fields)
	assert.Equal(t, 4, rows[2].Line)
}

func TestReader_SyntaxError(t *testing.T) {
	reader, err := NewReaderFrom("flows.csv", strings.NewReader("dstport,protocol\n80,6\n44\"3,6\n"))
	require.NoError(t, err)

	_, err = reader.Next()
	require.NoError(t, err)

	_, err = reader.Next()
	require.Error(t, err)
	assert.Equal(t, errors.KindMalformedRecord, errors.GetKind(err))
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader("../../test/data/does_not_exist.csv")
	require.Error(t, err)
	assert.Equal(t, errors.KindResourceUnavailable, errors.GetKind(err))
	assert.Equal(t, "../../test/data/does_not_exist.csv", errors.GetAttributes(err)["path"])
}

func TestReader_StopsOnCallbackError(t *testing.T) {
	reader, err := NewReaderFrom("flows.csv", strings.NewReader("dstport,protocol\n80,6\n443,6\n22,6\n"))
	require.NoError(t, err)

	stop := errors.New(errors.KindInternal, "stop")
	seen := 0
	err = reader.ReadRows(func(row model.Row) error {
		seen++
		if row.Fields["dstport"] == "443" {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, seen)
}
