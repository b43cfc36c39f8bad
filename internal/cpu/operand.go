package cpu

// readValue8 resolves an Operand to its 8-bit value, fetching immediate
// bytes and advancing HL for the auto-increment/decrement indirect forms as
// a side effect.
func (c *CPU) readValue8(op Operand) uint8 {
	switch op.Kind {
	case OperandReg8:
		return c.Regs.Get8(op.Reg8)
	case OperandAccumulator:
		return c.Regs.A
	case OperandD8:
		return c.fetch8()
	case OperandHLI:
		return c.Bus.Read8(c.Regs.GetHL())
	case OperandHLIncr:
		hl := c.Regs.GetHL()
		v := c.Bus.Read8(hl)
		c.Regs.SetHL(hl + 1)
		return v
	case OperandHLDecr:
		hl := c.Regs.GetHL()
		v := c.Bus.Read8(hl)
		c.Regs.SetHL(hl - 1)
		return v
	case OperandBCIndirect:
		return c.Bus.Read8(c.Regs.GetBC())
	case OperandDEIndirect:
		return c.Bus.Read8(c.Regs.GetDE())
	case OperandA16Indirect:
		return c.Bus.Read8(c.fetch16())
	case OperandA8Indirect:
		return c.Bus.Read8(0xFF00 + uint16(c.fetch8()))
	case OperandFF00CIndirect:
		return c.Bus.Read8(0xFF00 + uint16(c.Regs.C))
	default:
		return 0
	}
}

// writeValue8 writes an 8-bit value to the location named by an Operand,
// with the same fetch/auto-index side effects as readValue8.
func (c *CPU) writeValue8(op Operand, v uint8) {
	switch op.Kind {
	case OperandReg8:
		c.Regs.Set8(op.Reg8, v)
	case OperandAccumulator:
		c.Regs.A = v
	case OperandHLI:
		c.Bus.Write8(c.Regs.GetHL(), v)
	case OperandHLIncr:
		hl := c.Regs.GetHL()
		c.Bus.Write8(hl, v)
		c.Regs.SetHL(hl + 1)
	case OperandHLDecr:
		hl := c.Regs.GetHL()
		c.Bus.Write8(hl, v)
		c.Regs.SetHL(hl - 1)
	case OperandBCIndirect:
		c.Bus.Write8(c.Regs.GetBC(), v)
	case OperandDEIndirect:
		c.Bus.Write8(c.Regs.GetDE(), v)
	case OperandA16Indirect:
		c.Bus.Write8(c.fetch16(), v)
	case OperandA8Indirect:
		c.Bus.Write8(0xFF00+uint16(c.fetch8()), v)
	case OperandFF00CIndirect:
		c.Bus.Write8(0xFF00+uint16(c.Regs.C), v)
	}
}

// isMemOperand reports whether op addresses (HL) directly, the one case
// that adds a memory-access cycle to 8-bit ALU/INC/DEC/CB instructions.
func isMemOperand(op Operand) bool {
	return op.Kind == OperandHLI
}

func (c *CPU) readReg16(r R16) uint16 {
	switch r {
	case RegBC:
		return c.Regs.GetBC()
	case RegDE:
		return c.Regs.GetDE()
	case RegHL:
		return c.Regs.GetHL()
	case RegSP:
		return c.SP
	default:
		return 0
	}
}

func (c *CPU) writeReg16(r R16, v uint16) {
	switch r {
	case RegBC:
		c.Regs.SetBC(v)
	case RegDE:
		c.Regs.SetDE(v)
	case RegHL:
		c.Regs.SetHL(v)
	case RegSP:
		c.SP = v
	}
}

func (c *CPU) readStack(t StackTarget) uint16 {
	switch t {
	case StackAF:
		return c.Regs.GetAF()
	case StackBC:
		return c.Regs.GetBC()
	case StackDE:
		return c.Regs.GetDE()
	case StackHL:
		return c.Regs.GetHL()
	default:
		return 0
	}
}

func (c *CPU) writeStack(t StackTarget, v uint16) {
	switch t {
	case StackAF:
		c.Regs.SetAF(v)
	case StackBC:
		c.Regs.SetBC(v)
	case StackDE:
		c.Regs.SetDE(v)
	case StackHL:
		c.Regs.SetHL(v)
	}
}

func (c *CPU) testCond(cond JumpTest) bool {
	switch cond {
	case JumpAlways:
		return true
	case JumpZero:
		return c.Regs.F.Zero
	case JumpNotZero:
		return !c.Regs.F.Zero
	case JumpCarry:
		return c.Regs.F.Carry
	case JumpNotCarry:
		return !c.Regs.F.Carry
	default:
		return false
	}
}
