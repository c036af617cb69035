package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/git-autoupdate/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriterSize(&destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	_, writeError := writer.Write([]byte("ℹ Current branch: main\n"))
	require.NoError(testInstance, writeError)

	require.Equal(testInstance, "ℹ Current branch: main\n", destination.String())
}

func TestFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	var destination bytes.Buffer
	writer := utils.NewFlushingWriter(&destination)

	require.Same(testInstance, writer, utils.NewFlushingWriter(writer))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))

	flushingWriter, isFlushingWriter := writer.(*utils.FlushingWriter)
	require.True(testInstance, isFlushingWriter)
	require.Same(testInstance, &destination, flushingWriter.Unwrap())
}
