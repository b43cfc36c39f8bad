package cpu

// Op identifies the operation an Instruction performs. Decoding never
// inspects CPU state; it is a pure byte -> Instruction mapping.
type Op int

const (
	OpUnknown Op = iota
	OpNOP
	OpHALT
	OpSTOP
	OpDI
	OpEI
	OpDAA
	OpCPL
	OpSCF
	OpCCF

	OpRLCA
	OpRRCA
	OpRLA
	OpRRA

	OpLD   // LD dst, src (8-bit, covers r,r / r,(HL) / (HL),r / r,d8 / (HL),d8 and indirect forms)
	OpLD16 // LD r16, d16
	OpLDSPD16
	OpLDSPHL
	OpLDHLSPe8
	OpLDA16SP // LD (a16), SP
	OpLDH     // LDH (a8),A and LDH A,(a8) - direction encoded via Arg1/Arg2

	OpPUSH
	OpPOP

	OpADD   // ADD A, src
	OpADC
	OpSUB
	OpSBC
	OpAND
	OpOR
	OpXOR
	OpCP
	OpINC   // INC r8 / INC (HL)
	OpDEC
	OpADDHL // ADD HL, r16
	OpADDSPe8
	OpINC16
	OpDEC16

	OpJP
	OpJPHL
	OpJR
	OpCALL
	OpRET
	OpRETI
	OpRST

	OpRLC
	OpRRC
	OpRL
	OpRR
	OpSLA
	OpSRA
	OpSWAP
	OpSRL
	OpBIT
	OpRES
	OpSET
)

// OperandKind identifies the shape of an Instruction operand.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandReg8
	OperandReg16
	OperandD8
	OperandD16
	OperandHLI       // the byte at address HL
	OperandHLIncr    // (HL), then HL++
	OperandHLDecr    // (HL), then HL--
	OperandBCIndirect
	OperandDEIndirect
	OperandA16Indirect // absolute word address, immediate
	OperandA8Indirect  // 0xFF00 + immediate byte (LDH)
	OperandFF00CIndirect
	OperandSP
	OperandAccumulator // the A register, named explicitly for LD directions
)

// Operand names one source or destination location for an instruction.
type Operand struct {
	Kind OperandKind
	Reg8 R8
	Reg16 R16
}

// JumpTest names the condition gating a conditional jump/call/ret.
type JumpTest int

const (
	JumpAlways JumpTest = iota
	JumpZero
	JumpNotZero
	JumpCarry
	JumpNotCarry
)

// Instruction is a tagged operation plus its operands, produced purely by
// decoding a byte (or byte pair, for the CB table). No CPU state is
// consulted during decode.
type Instruction struct {
	Op    Op
	Arg1  Operand
	Arg2  Operand
	Cond  JumpTest
	Bit   uint8
	Stack StackTarget
}

var regOperand = [8]Operand{
	{Kind: OperandReg8, Reg8: RegB},
	{Kind: OperandReg8, Reg8: RegC},
	{Kind: OperandReg8, Reg8: RegD},
	{Kind: OperandReg8, Reg8: RegE},
	{Kind: OperandReg8, Reg8: RegH},
	{Kind: OperandReg8, Reg8: RegL},
	{Kind: OperandHLI},
	{Kind: OperandReg8, Reg8: RegA},
}

// cbOperand returns the operand selected by the low 3 bits of a CB opcode.
func cbOperand(opcode uint8) Operand {
	return regOperand[opcode&0x07]
}

// DecodeBase decodes a non-prefixed opcode byte. ok is false for the 11
// opcodes the LR35902 leaves undefined.
func DecodeBase(opcode uint8) (Instruction, bool) {
	// 0x40-0x7F: the LD r,r' block, except 0x76 which is HALT.
	if opcode >= 0x40 && opcode <= 0x7F && opcode != 0x76 {
		dst := regOperand[(opcode>>3)&0x07]
		src := regOperand[opcode&0x07]
		return Instruction{Op: OpLD, Arg1: dst, Arg2: src}, true
	}
	// 0x80-0xBF: the 8-bit arithmetic block against A.
	if opcode >= 0x80 && opcode <= 0xBF {
		src := regOperand[opcode&0x07]
		op := [8]Op{OpADD, OpADC, OpSUB, OpSBC, OpAND, OpXOR, OpOR, OpCP}[(opcode>>3)&0x07]
		return Instruction{Op: op, Arg1: src}, true
	}

	switch opcode {
	case 0x00:
		return Instruction{Op: OpNOP}, true
	case 0x01:
		return Instruction{Op: OpLD16, Arg1: Operand{Kind: OperandReg16, Reg16: RegBC}, Arg2: Operand{Kind: OperandD16}}, true
	case 0x02:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandBCIndirect}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0x03:
		return Instruction{Op: OpINC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegBC}}, true
	case 0x04:
		return Instruction{Op: OpINC, Arg1: regOperand[0]}, true
	case 0x05:
		return Instruction{Op: OpDEC, Arg1: regOperand[0]}, true
	case 0x06:
		return Instruction{Op: OpLD, Arg1: regOperand[0], Arg2: Operand{Kind: OperandD8}}, true
	case 0x07:
		return Instruction{Op: OpRLCA}, true
	case 0x08:
		return Instruction{Op: OpLDA16SP}, true
	case 0x09:
		return Instruction{Op: OpADDHL, Arg1: Operand{Kind: OperandReg16, Reg16: RegBC}}, true
	case 0x0A:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandBCIndirect}}, true
	case 0x0B:
		return Instruction{Op: OpDEC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegBC}}, true
	case 0x0C:
		return Instruction{Op: OpINC, Arg1: regOperand[1]}, true
	case 0x0D:
		return Instruction{Op: OpDEC, Arg1: regOperand[1]}, true
	case 0x0E:
		return Instruction{Op: OpLD, Arg1: regOperand[1], Arg2: Operand{Kind: OperandD8}}, true
	case 0x0F:
		return Instruction{Op: OpRRCA}, true

	case 0x10:
		return Instruction{Op: OpSTOP}, true
	case 0x11:
		return Instruction{Op: OpLD16, Arg1: Operand{Kind: OperandReg16, Reg16: RegDE}, Arg2: Operand{Kind: OperandD16}}, true
	case 0x12:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandDEIndirect}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0x13:
		return Instruction{Op: OpINC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegDE}}, true
	case 0x14:
		return Instruction{Op: OpINC, Arg1: regOperand[2]}, true
	case 0x15:
		return Instruction{Op: OpDEC, Arg1: regOperand[2]}, true
	case 0x16:
		return Instruction{Op: OpLD, Arg1: regOperand[2], Arg2: Operand{Kind: OperandD8}}, true
	case 0x17:
		return Instruction{Op: OpRLA}, true
	case 0x18:
		return Instruction{Op: OpJR, Cond: JumpAlways}, true
	case 0x19:
		return Instruction{Op: OpADDHL, Arg1: Operand{Kind: OperandReg16, Reg16: RegDE}}, true
	case 0x1A:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandDEIndirect}}, true
	case 0x1B:
		return Instruction{Op: OpDEC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegDE}}, true
	case 0x1C:
		return Instruction{Op: OpINC, Arg1: regOperand[3]}, true
	case 0x1D:
		return Instruction{Op: OpDEC, Arg1: regOperand[3]}, true
	case 0x1E:
		return Instruction{Op: OpLD, Arg1: regOperand[3], Arg2: Operand{Kind: OperandD8}}, true
	case 0x1F:
		return Instruction{Op: OpRRA}, true

	case 0x20:
		return Instruction{Op: OpJR, Cond: JumpNotZero}, true
	case 0x21:
		return Instruction{Op: OpLD16, Arg1: Operand{Kind: OperandReg16, Reg16: RegHL}, Arg2: Operand{Kind: OperandD16}}, true
	case 0x22:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandHLIncr}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0x23:
		return Instruction{Op: OpINC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegHL}}, true
	case 0x24:
		return Instruction{Op: OpINC, Arg1: regOperand[4]}, true
	case 0x25:
		return Instruction{Op: OpDEC, Arg1: regOperand[4]}, true
	case 0x26:
		return Instruction{Op: OpLD, Arg1: regOperand[4], Arg2: Operand{Kind: OperandD8}}, true
	case 0x27:
		return Instruction{Op: OpDAA}, true
	case 0x28:
		return Instruction{Op: OpJR, Cond: JumpZero}, true
	case 0x29:
		return Instruction{Op: OpADDHL, Arg1: Operand{Kind: OperandReg16, Reg16: RegHL}}, true
	case 0x2A:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandHLIncr}}, true
	case 0x2B:
		return Instruction{Op: OpDEC16, Arg1: Operand{Kind: OperandReg16, Reg16: RegHL}}, true
	case 0x2C:
		return Instruction{Op: OpINC, Arg1: regOperand[5]}, true
	case 0x2D:
		return Instruction{Op: OpDEC, Arg1: regOperand[5]}, true
	case 0x2E:
		return Instruction{Op: OpLD, Arg1: regOperand[5], Arg2: Operand{Kind: OperandD8}}, true
	case 0x2F:
		return Instruction{Op: OpCPL}, true

	case 0x30:
		return Instruction{Op: OpJR, Cond: JumpNotCarry}, true
	case 0x31:
		return Instruction{Op: OpLDSPD16}, true
	case 0x32:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandHLDecr}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0x33:
		return Instruction{Op: OpINC16, Arg1: Operand{Kind: OperandSP}}, true
	case 0x34:
		return Instruction{Op: OpINC, Arg1: Operand{Kind: OperandHLI}}, true
	case 0x35:
		return Instruction{Op: OpDEC, Arg1: Operand{Kind: OperandHLI}}, true
	case 0x36:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandHLI}, Arg2: Operand{Kind: OperandD8}}, true
	case 0x37:
		return Instruction{Op: OpSCF}, true
	case 0x38:
		return Instruction{Op: OpJR, Cond: JumpCarry}, true
	case 0x39:
		return Instruction{Op: OpADDHL, Arg1: Operand{Kind: OperandSP}}, true
	case 0x3A:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandHLDecr}}, true
	case 0x3B:
		return Instruction{Op: OpDEC16, Arg1: Operand{Kind: OperandSP}}, true
	case 0x3C:
		return Instruction{Op: OpINC, Arg1: regOperand[7]}, true
	case 0x3D:
		return Instruction{Op: OpDEC, Arg1: regOperand[7]}, true
	case 0x3E:
		return Instruction{Op: OpLD, Arg1: regOperand[7], Arg2: Operand{Kind: OperandD8}}, true
	case 0x3F:
		return Instruction{Op: OpCCF}, true

	case 0x76:
		return Instruction{Op: OpHALT}, true

	case 0xC0:
		return Instruction{Op: OpRET, Cond: JumpNotZero}, true
	case 0xC1:
		return Instruction{Op: OpPOP, Stack: StackBC}, true
	case 0xC2:
		return Instruction{Op: OpJP, Cond: JumpNotZero}, true
	case 0xC3:
		return Instruction{Op: OpJP, Cond: JumpAlways}, true
	case 0xC4:
		return Instruction{Op: OpCALL, Cond: JumpNotZero}, true
	case 0xC5:
		return Instruction{Op: OpPUSH, Stack: StackBC}, true
	case 0xC6:
		return Instruction{Op: OpADD, Arg1: Operand{Kind: OperandD8}}, true
	case 0xC7:
		return Instruction{Op: OpRST, Bit: 0x00}, true
	case 0xC8:
		return Instruction{Op: OpRET, Cond: JumpZero}, true
	case 0xC9:
		return Instruction{Op: OpRET, Cond: JumpAlways}, true
	case 0xCA:
		return Instruction{Op: OpJP, Cond: JumpZero}, true
	case 0xCC:
		return Instruction{Op: OpCALL, Cond: JumpZero}, true
	case 0xCD:
		return Instruction{Op: OpCALL, Cond: JumpAlways}, true
	case 0xCE:
		return Instruction{Op: OpADC, Arg1: Operand{Kind: OperandD8}}, true
	case 0xCF:
		return Instruction{Op: OpRST, Bit: 0x08}, true

	case 0xD0:
		return Instruction{Op: OpRET, Cond: JumpNotCarry}, true
	case 0xD1:
		return Instruction{Op: OpPOP, Stack: StackDE}, true
	case 0xD2:
		return Instruction{Op: OpJP, Cond: JumpNotCarry}, true
	case 0xD4:
		return Instruction{Op: OpCALL, Cond: JumpNotCarry}, true
	case 0xD5:
		return Instruction{Op: OpPUSH, Stack: StackDE}, true
	case 0xD6:
		return Instruction{Op: OpSUB, Arg1: Operand{Kind: OperandD8}}, true
	case 0xD7:
		return Instruction{Op: OpRST, Bit: 0x10}, true
	case 0xD8:
		return Instruction{Op: OpRET, Cond: JumpCarry}, true
	case 0xD9:
		return Instruction{Op: OpRETI}, true
	case 0xDA:
		return Instruction{Op: OpJP, Cond: JumpCarry}, true
	case 0xDC:
		return Instruction{Op: OpCALL, Cond: JumpCarry}, true
	case 0xDE:
		return Instruction{Op: OpSBC, Arg1: Operand{Kind: OperandD8}}, true
	case 0xDF:
		return Instruction{Op: OpRST, Bit: 0x18}, true

	case 0xE0:
		return Instruction{Op: OpLDH, Arg1: Operand{Kind: OperandA8Indirect}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0xE1:
		return Instruction{Op: OpPOP, Stack: StackHL}, true
	case 0xE2:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandFF00CIndirect}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0xE5:
		return Instruction{Op: OpPUSH, Stack: StackHL}, true
	case 0xE6:
		return Instruction{Op: OpAND, Arg1: Operand{Kind: OperandD8}}, true
	case 0xE7:
		return Instruction{Op: OpRST, Bit: 0x20}, true
	case 0xE8:
		return Instruction{Op: OpADDSPe8}, true
	case 0xE9:
		return Instruction{Op: OpJPHL}, true
	case 0xEA:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandA16Indirect}, Arg2: Operand{Kind: OperandAccumulator}}, true
	case 0xEE:
		return Instruction{Op: OpXOR, Arg1: Operand{Kind: OperandD8}}, true
	case 0xEF:
		return Instruction{Op: OpRST, Bit: 0x28}, true

	case 0xF0:
		return Instruction{Op: OpLDH, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandA8Indirect}}, true
	case 0xF1:
		return Instruction{Op: OpPOP, Stack: StackAF}, true
	case 0xF2:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandFF00CIndirect}}, true
	case 0xF3:
		return Instruction{Op: OpDI}, true
	case 0xF5:
		return Instruction{Op: OpPUSH, Stack: StackAF}, true
	case 0xF6:
		return Instruction{Op: OpOR, Arg1: Operand{Kind: OperandD8}}, true
	case 0xF7:
		return Instruction{Op: OpRST, Bit: 0x30}, true
	case 0xF8:
		return Instruction{Op: OpLDHLSPe8}, true
	case 0xF9:
		return Instruction{Op: OpLDSPHL}, true
	case 0xFA:
		return Instruction{Op: OpLD, Arg1: Operand{Kind: OperandAccumulator}, Arg2: Operand{Kind: OperandA16Indirect}}, true
	case 0xFB:
		return Instruction{Op: OpEI}, true
	case 0xFE:
		return Instruction{Op: OpCP, Arg1: Operand{Kind: OperandD8}}, true
	case 0xFF:
		return Instruction{Op: OpRST, Bit: 0x38}, true

	default:
		// 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD
		return Instruction{}, false
	}
}

// DecodeCB decodes the second byte of a 0xCB-prefixed instruction. The CB
// table is fully systematic: 8 operations x 8 targets, with BIT/RES/SET
// additionally parameterized by bit index.
func DecodeCB(opcode uint8) (Instruction, bool) {
	target := cbOperand(opcode)
	switch {
	case opcode <= 0x07:
		return Instruction{Op: OpRLC, Arg1: target}, true
	case opcode <= 0x0F:
		return Instruction{Op: OpRRC, Arg1: target}, true
	case opcode <= 0x17:
		return Instruction{Op: OpRL, Arg1: target}, true
	case opcode <= 0x1F:
		return Instruction{Op: OpRR, Arg1: target}, true
	case opcode <= 0x27:
		return Instruction{Op: OpSLA, Arg1: target}, true
	case opcode <= 0x2F:
		return Instruction{Op: OpSRA, Arg1: target}, true
	case opcode <= 0x37:
		return Instruction{Op: OpSWAP, Arg1: target}, true
	case opcode <= 0x3F:
		return Instruction{Op: OpSRL, Arg1: target}, true
	case opcode <= 0x7F:
		return Instruction{Op: OpBIT, Arg1: target, Bit: (opcode >> 3) & 0x07}, true
	case opcode <= 0xBF:
		return Instruction{Op: OpRES, Arg1: target, Bit: (opcode >> 3) & 0x07}, true
	default:
		return Instruction{Op: OpSET, Arg1: target, Bit: (opcode >> 3) & 0x07}, true
	}
}
