package fat

import "encoding/binary"

// Directory entry attribute bits (32-byte short-name dentry, 0x0B offset).
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	// AttrLongName is the combination that marks a VFAT long-file-name
	// continuation entry rather than a normal short-name entry.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const DeletedMarker = 0xE5
const FreeMarker = 0x00

// Dentry is one 32-byte FAT directory entry slot, decoded in place. It may
// describe a file, a directory, a volume label, a long-name fragment, or
// be entirely free — all dentry slots receive inode numbers even when
// they are not files, per spec §4.4.
type Dentry struct {
	Name          [11]byte
	Attr          uint8
	NTReserved    uint8
	CreateTenths  uint8
	CreateTime    uint16
	CreateDate    uint16
	AccessDate    uint16
	FirstClusterHi uint16
	WriteTime     uint16
	WriteDate     uint16
	FirstClusterLo uint16
	FileSize      uint32
}

func DecodeDentry(b []byte) Dentry {
	return Dentry{
		Name:           [11]byte(b[0:11]),
		Attr:           b[11],
		NTReserved:     b[12],
		CreateTenths:   b[13],
		CreateTime:     binary.LittleEndian.Uint16(b[14:16]),
		CreateDate:     binary.LittleEndian.Uint16(b[16:18]),
		AccessDate:     binary.LittleEndian.Uint16(b[18:20]),
		FirstClusterHi: binary.LittleEndian.Uint16(b[20:22]),
		WriteTime:      binary.LittleEndian.Uint16(b[22:24]),
		WriteDate:      binary.LittleEndian.Uint16(b[24:26]),
		FirstClusterLo: binary.LittleEndian.Uint16(b[26:28]),
		FileSize:       binary.LittleEndian.Uint32(b[28:32]),
	}
}

func (d Dentry) IsLongName() bool {
	return d.Attr&AttrLongName == AttrLongName
}

func (d Dentry) IsVolumeLabel() bool {
	return !d.IsLongName() && d.Attr&AttrVolumeID != 0
}

func (d Dentry) IsDirectory() bool {
	return !d.IsLongName() && d.Attr&AttrDirectory != 0
}

func (d Dentry) IsFree() bool {
	return d.Name[0] == FreeMarker || d.Name[0] == DeletedMarker
}

func (d Dentry) FirstCluster() uint64 {
	return uint64(d.FirstClusterHi)<<16 | uint64(d.FirstClusterLo)
}

// ShortName renders the 8.3 name with trailing spaces trimmed and the
// implicit dot reinserted between base and extension.
func (d Dentry) ShortName() string {
	base := trimSpaces(d.Name[0:8])
	ext := trimSpaces(d.Name[8:11])
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func trimSpaces(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}
