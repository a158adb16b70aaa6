package j1939

// Layout of the 29-bit extended identifier, most significant field first:
// priority(3) reserved(1) data page(1) PDU format(8) PDU specific(8) source address(8).
const (
	IdentifierBits = 29
	MaxIdentifier  = 1<<IdentifierBits - 1

	priorityShift     = 26
	reservedShift     = 25
	dataPageShift     = 24
	pduFormatShift    = 16
	pduSpecificShift  = 8
	sourceAddrShift   = 0
	pdu2FormatMinimum = 240

	// GlobalAddress is the broadcast destination implied by PDU2 frames.
	GlobalAddress = 0xFF
)

// DecodedIdentifier holds the sub-fields of a J1939 identifier and the PGN
// derived from them.
type DecodedIdentifier struct {
	Priority      uint8  `json:"priority"`
	Reserved      uint8  `json:"reserved"`
	DataPage      uint8  `json:"data_page"`
	PDUFormat     uint8  `json:"pdu_format"`
	PDUSpecific   uint8  `json:"pdu_specific"`
	SourceAddress uint8  `json:"source_address"`
	PGN           uint32 `json:"pgn"`
}

// DecodeIdentifier splits id into its J1939 fields. Only the low 29 bits are
// considered. Every value decodes; there is no failure case.
//
// The PGN is built from the data page and PDU format only. PDU specific is
// left out on both sides of the PDU1/PDU2 threshold; SAE J1939 folds it in
// as a group extension for PDU2 (format >= 240), which this decoder
// deliberately does not do.
func DecodeIdentifier(id uint32) DecodedIdentifier {
	id &= MaxIdentifier
	d := DecodedIdentifier{
		Priority:      uint8(id>>priorityShift) & 0x7,
		Reserved:      uint8(id>>reservedShift) & 0x1,
		DataPage:      uint8(id>>dataPageShift) & 0x1,
		PDUFormat:     uint8(id >> pduFormatShift),
		PDUSpecific:   uint8(id >> pduSpecificShift),
		SourceAddress: uint8(id >> sourceAddrShift),
	}
	d.PGN = derivePGN(d.DataPage, d.PDUFormat)
	return d
}

func derivePGN(dataPage, pduFormat uint8) uint32 {
	// Same assembly for PDU1 and PDU2: PDU specific never contributes.
	return uint32(dataPage)<<16 | uint32(pduFormat)<<8
}

// Value packs the fields back into the 29-bit identifier.
func (d DecodedIdentifier) Value() uint32 {
	return uint32(d.Priority&0x7)<<priorityShift |
		uint32(d.Reserved&0x1)<<reservedShift |
		uint32(d.DataPage&0x1)<<dataPageShift |
		uint32(d.PDUFormat)<<pduFormatShift |
		uint32(d.PDUSpecific)<<pduSpecificShift |
		uint32(d.SourceAddress)<<sourceAddrShift
}

// IsPDU1 reports whether the frame is destination specific (PDU format below 240).
func (d DecodedIdentifier) IsPDU1() bool {
	return d.PDUFormat < pdu2FormatMinimum
}

// Destination returns the destination address of a PDU1 frame. PDU2 frames are
// broadcast, reported as GlobalAddress and false.
func (d DecodedIdentifier) Destination() (uint8, bool) {
	if d.IsPDU1() {
		return d.PDUSpecific, true
	}
	return GlobalAddress, false
}
