package step

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Scan:
// - Finds every #id=TYPE(...); record with id, type, offset, length, line
// - Offsets slice back to the exact record text
// - Semicolons inside string literals do not terminate a record
// - '#' inside header strings does not produce a record
// - Malformed records are skipped, scanning continues
// - Records spanning multiple lines keep the line count straight
// - Lower-case type names are upper-cased
// - Empty input and header-only input yield no records

const scanFixture = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
FILE_NAME('site #4 model','2024-03-11',('author'),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('2O2Fr$t4X7Zf8NOew3FL9r',#2,'Office Park',$,$,$,$,(#20),#7);
#2=IFCOWNERHISTORY(#3,#4,$,.ADDED.,$,$,$,1577836800);
#10=IFCWALL('1Ab2Cd3Ef4Gh5Ij6Kl7Mn8',#2,'Wall; north wing',$,$,#11,#12,'W-01',.SOLIDWALL.);
#11=ifcLocalPlacement($,#13);
#12=IFCPRODUCTDEFINITIONSHAPE($,$,
  (#14,
   #15));
#16=IFCSLAB('9Zy8Xw7Vu6Ts5Rq4Po3Nm2',#2,'Ground slab',$,$,$,$,$,.FLOOR.);
ENDSEC;
END-ISO-10303-21;
`

func TestScan_RecordShape(t *testing.T) {
	t.Parallel()

	buf := []byte(scanFixture)
	refs := Scan(buf)
	require.Len(t, refs, 6)

	ids := make([]uint32, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uint32{1, 2, 10, 11, 12, 16}, ids)

	first := refs[0]
	assert.Equal(t, "IFCPROJECT", first.Type)
	assert.Equal(t, strings.Index(scanFixture, "#1="), first.Offset)
	assert.Equal(t, 8, first.Line)

	// Offset and length slice back to the full record.
	text := string(buf[first.Offset : first.Offset+first.Length])
	assert.True(t, strings.HasPrefix(text, "#1=IFCPROJECT("))
	assert.True(t, strings.HasSuffix(text, ";"))
}

func TestScan_SemicolonInsideString(t *testing.T) {
	t.Parallel()

	refs := Scan([]byte(scanFixture))
	var wall EntityRef
	for _, r := range refs {
		if r.ID == 10 {
			wall = r
		}
	}
	require.Equal(t, uint32(10), wall.ID)

	text := scanFixture[wall.Offset : wall.Offset+wall.Length]
	assert.Contains(t, text, "Wall; north wing")
	assert.True(t, strings.HasSuffix(text, ".SOLIDWALL.);"))
}

func TestScan_HeaderHashIgnored(t *testing.T) {
	t.Parallel()

	// 'site #4 model' in FILE_NAME must not become a record.
	refs := Scan([]byte(scanFixture))
	for _, r := range refs {
		assert.NotEqual(t, uint32(4), r.ID)
	}
}

func TestScan_MultiLineRecord(t *testing.T) {
	t.Parallel()

	refs := Scan([]byte(scanFixture))
	var shape, slab EntityRef
	for _, r := range refs {
		switch r.ID {
		case 12:
			shape = r
		case 16:
			slab = r
		}
	}
	assert.Equal(t, 12, shape.Line)
	// The shape record spans three lines; the slab follows on line 15.
	assert.Equal(t, 15, slab.Line)
}

func TestScan_TypeNameUppercased(t *testing.T) {
	t.Parallel()

	refs := Scan([]byte(scanFixture))
	var placement EntityRef
	for _, r := range refs {
		if r.ID == 11 {
			placement = r
		}
	}
	assert.Equal(t, "IFCLOCALPLACEMENT", placement.Type)
}

func TestScan_SkipsMalformed(t *testing.T) {
	t.Parallel()

	input := `DATA;
#=IFCWALL($);
#5 'not a record'
#7=IFCDOOR($,$);
#8
#9=IFCWINDOW($);
ENDSEC;
`
	refs := Scan([]byte(input))
	require.Len(t, refs, 2)
	assert.Equal(t, uint32(7), refs[0].ID)
	assert.Equal(t, "IFCDOOR", refs[0].Type)
	assert.Equal(t, uint32(9), refs[1].ID)
	assert.Equal(t, 6, refs[1].Line)
}

func TestScan_UnterminatedRecordDropped(t *testing.T) {
	t.Parallel()

	refs := Scan([]byte("#1=IFCWALL($);\n#2=IFCSLAB('no end"))
	require.Len(t, refs, 1)
	assert.Equal(t, uint32(1), refs[0].ID)
}

func TestScan_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Scan(nil))
	assert.Empty(t, Scan([]byte("")))
	assert.Empty(t, Scan([]byte("ISO-10303-21;\nHEADER;\nENDSEC;\n")))
}
