package jsonwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterEmptyObject(t *testing.T) {
	w := New()
	w.BeginObject()
	w.EndObject()
	assert.Equal(t, "{}", w.String())
}

func TestWriterEmptyArray(t *testing.T) {
	w := New()
	w.BeginArray()
	w.EndArray()
	assert.Equal(t, "[]", w.String())
}

func TestWriterObjectWithMembers(t *testing.T) {
	w := New()
	w.BeginObject()
	w.Member("name", KFirst)
	w.WriteString("X")
	w.Member("value", KSubsequent)
	w.WriteInt64(7)
	w.EndObject()
	assert.Equal(t, "{\n  \"name\": \"X\",\n  \"value\": 7\n}", w.String())
}

func TestWriterNestedObjectInMember(t *testing.T) {
	w := New()
	w.BeginObject()
	w.Member("type_name", KFirst)
	w.BeginObject()
	w.Member("type_name", KFirst)
	w.WriteStringArray([]string{"uint8"})
	w.Member("sequence_size", KSubsequent)
	w.WriteInt64(16)
	w.EndObject()
	w.Member("sequence_size", KSubsequent)
	w.WriteInt64(4)
	w.EndObject()

	want := "{\n" +
		"  \"type_name\": {\n" +
		"    \"type_name\": [\"uint8\"],\n" +
		"    \"sequence_size\": 16\n" +
		"  },\n" +
		"  \"sequence_size\": 4\n" +
		"}"
	assert.Equal(t, want, w.String())
}

func TestWriterArrayOfObjects(t *testing.T) {
	w := New()
	w.BeginArray()
	w.ArrayElement(KFirst)
	w.BeginObject()
	w.Member("name", KFirst)
	w.WriteString("A")
	w.EndObject()
	w.ArrayElement(KSubsequent)
	w.BeginObject()
	w.Member("name", KFirst)
	w.WriteString("B")
	w.EndObject()
	w.EndArray()

	want := "[\n" +
		"  {\n" +
		"    \"name\": \"A\"\n" +
		"  },\n" +
		"  {\n" +
		"    \"name\": \"B\"\n" +
		"  }\n" +
		"]"
	assert.Equal(t, want, w.String())
}

func TestWriterEscapesControlAndQuoteCharacters(t *testing.T) {
	w := New()
	w.WriteString("a\"b\\c\nd")
	assert.Equal(t, `"a\"b\\c\nd"`, w.String())
}

func TestWriterEmptyArrayInsideObjectDoesNotAddNewline(t *testing.T) {
	w := New()
	w.BeginObject()
	w.Member("members", KFirst)
	w.BeginArray()
	w.EndArray()
	w.EndObject()
	assert.Equal(t, "{\n  \"members\": []\n}", w.String())
}
