package cpu

// execute dispatches a decoded Instruction, mutating CPU/bus state and
// returning the T-cycle count it consumed. Any immediate operand bytes
// (d8/d16/a8/a16/r8) are fetched here, not during decode, so decode stays a
// pure function of the opcode byte alone.
func (c *CPU) execute(inst Instruction) (int, error) {
	switch inst.Op {
	case OpNOP:
		return 4, nil
	case OpHALT:
		c.Halted = true
		return 4, nil
	case OpSTOP:
		c.Stopped = true
		c.fetch8() // STOP is followed by an ignored padding byte
		return 4, nil
	case OpDI:
		c.IME = false
		c.imeDelay = -1
		return 4, nil
	case OpEI:
		c.requestEI()
		return 4, nil

	case OpDAA:
		c.executeDAA()
		return 4, nil
	case OpCPL:
		c.Regs.A = ^c.Regs.A
		c.Regs.F.Subtract = true
		c.Regs.F.HalfCarry = true
		return 4, nil
	case OpSCF:
		c.Regs.F.Subtract = false
		c.Regs.F.HalfCarry = false
		c.Regs.F.Carry = true
		return 4, nil
	case OpCCF:
		c.Regs.F.Subtract = false
		c.Regs.F.HalfCarry = false
		c.Regs.F.Carry = !c.Regs.F.Carry
		return 4, nil

	case OpRLCA:
		v, carry := rotateLeft(c.Regs.A, false, false)
		c.Regs.A = v
		c.Regs.F = FlagsRegister{Carry: carry}
		return 4, nil
	case OpRRCA:
		v, carry := rotateRight(c.Regs.A, false, false)
		c.Regs.A = v
		c.Regs.F = FlagsRegister{Carry: carry}
		return 4, nil
	case OpRLA:
		v, carry := rotateLeft(c.Regs.A, true, c.Regs.F.Carry)
		c.Regs.A = v
		c.Regs.F = FlagsRegister{Carry: carry}
		return 4, nil
	case OpRRA:
		v, carry := rotateRight(c.Regs.A, true, c.Regs.F.Carry)
		c.Regs.A = v
		c.Regs.F = FlagsRegister{Carry: carry}
		return 4, nil

	case OpLD, OpLDH:
		v := c.readValue8(inst.Arg2)
		c.writeValue8(inst.Arg1, v)
		return c.ldCycles(inst), nil
	case OpLD16:
		c.writeReg16(inst.Arg1.Reg16, c.fetch16())
		return 12, nil
	case OpLDSPD16:
		c.SP = c.fetch16()
		return 12, nil
	case OpLDSPHL:
		c.SP = c.Regs.GetHL()
		return 8, nil
	case OpLDHLSPe8:
		e := int8(c.fetch8())
		result, half, carry := addSPSigned(c.SP, e)
		c.Regs.SetHL(result)
		c.Regs.F = FlagsRegister{HalfCarry: half, Carry: carry}
		return 12, nil
	case OpLDA16SP:
		addr := c.fetch16()
		c.Bus.Write16(addr, c.SP)
		return 20, nil
	case OpADDSPe8:
		e := int8(c.fetch8())
		result, half, carry := addSPSigned(c.SP, e)
		c.SP = result
		c.Regs.F = FlagsRegister{HalfCarry: half, Carry: carry}
		return 16, nil

	case OpPUSH:
		c.pushStack(c.readStack(inst.Stack))
		return 16, nil
	case OpPOP:
		c.writeStack(inst.Stack, c.popStack())
		return 12, nil

	case OpADD:
		v := c.readValue8(inst.Arg1)
		result, flags := addBytes(c.Regs.A, v, false)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpADC:
		v := c.readValue8(inst.Arg1)
		result, flags := addBytes(c.Regs.A, v, c.Regs.F.Carry)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpSUB:
		v := c.readValue8(inst.Arg1)
		result, flags := subBytes(c.Regs.A, v, false)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpSBC:
		v := c.readValue8(inst.Arg1)
		result, flags := subBytes(c.Regs.A, v, c.Regs.F.Carry)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpAND:
		v := c.readValue8(inst.Arg1)
		result, flags := andBytes(c.Regs.A, v)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpOR:
		v := c.readValue8(inst.Arg1)
		result, flags := orBytes(c.Regs.A, v)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpXOR:
		v := c.readValue8(inst.Arg1)
		result, flags := xorBytes(c.Regs.A, v)
		c.Regs.A = result
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil
	case OpCP:
		v := c.readValue8(inst.Arg1)
		_, flags := subBytes(c.Regs.A, v, false)
		c.Regs.F = flags
		return c.aluCycles(inst.Arg1), nil

	case OpINC:
		v := c.readValue8(inst.Arg1)
		result, zero, half := incByte(v)
		c.writeValue8WithoutFetch(inst.Arg1, result)
		c.Regs.F.Zero = zero
		c.Regs.F.Subtract = false
		c.Regs.F.HalfCarry = half
		if isMemOperand(inst.Arg1) {
			return 12, nil
		}
		return 4, nil
	case OpDEC:
		v := c.readValue8(inst.Arg1)
		result, zero, half := decByte(v)
		c.writeValue8WithoutFetch(inst.Arg1, result)
		c.Regs.F.Zero = zero
		c.Regs.F.Subtract = true
		c.Regs.F.HalfCarry = half
		if isMemOperand(inst.Arg1) {
			return 12, nil
		}
		return 4, nil

	case OpADDHL:
		val := c.readReg16Arg(inst.Arg1)
		result, half, carry := addWords(c.Regs.GetHL(), val)
		c.Regs.SetHL(result)
		c.Regs.F.Subtract = false
		c.Regs.F.HalfCarry = half
		c.Regs.F.Carry = carry
		return 8, nil
	case OpINC16:
		c.writeReg16Arg(inst.Arg1, c.readReg16Arg(inst.Arg1)+1)
		return 8, nil
	case OpDEC16:
		c.writeReg16Arg(inst.Arg1, c.readReg16Arg(inst.Arg1)-1)
		return 8, nil

	case OpJP:
		addr := c.fetch16()
		if c.testCond(inst.Cond) {
			c.PC = addr
			return 16, nil
		}
		return 12, nil
	case OpJPHL:
		c.PC = c.Regs.GetHL()
		return 4, nil
	case OpJR:
		offset := int8(c.fetch8())
		if c.testCond(inst.Cond) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 12, nil
		}
		return 8, nil
	case OpCALL:
		addr := c.fetch16()
		if c.testCond(inst.Cond) {
			c.pushStack(c.PC)
			c.PC = addr
			return 24, nil
		}
		return 12, nil
	case OpRET:
		if inst.Cond == JumpAlways {
			c.PC = c.popStack()
			return 16, nil
		}
		if c.testCond(inst.Cond) {
			c.PC = c.popStack()
			return 20, nil
		}
		return 8, nil
	case OpRETI:
		c.PC = c.popStack()
		c.IME = true
		c.imeDelay = -1
		return 16, nil
	case OpRST:
		c.pushStack(c.PC)
		c.PC = uint16(inst.Bit)
		return 16, nil

	case OpRLC:
		return c.cbRotateShift(inst, func(v uint8) (uint8, bool) { return rotateLeft(v, false, false) }), nil
	case OpRRC:
		return c.cbRotateShift(inst, func(v uint8) (uint8, bool) { return rotateRight(v, false, false) }), nil
	case OpRL:
		carryIn := c.Regs.F.Carry
		return c.cbRotateShift(inst, func(v uint8) (uint8, bool) { return rotateLeft(v, true, carryIn) }), nil
	case OpRR:
		carryIn := c.Regs.F.Carry
		return c.cbRotateShift(inst, func(v uint8) (uint8, bool) { return rotateRight(v, true, carryIn) }), nil
	case OpSLA:
		return c.cbRotateShift(inst, shiftLeftArith), nil
	case OpSRA:
		return c.cbRotateShift(inst, shiftRightArith), nil
	case OpSRL:
		return c.cbRotateShift(inst, shiftRightLogical), nil
	case OpSWAP:
		v := c.readValue8(inst.Arg1)
		result := swapNibbles(v)
		c.writeValue8WithoutFetch(inst.Arg1, result)
		c.Regs.F = FlagsRegister{Zero: result == 0}
		if isMemOperand(inst.Arg1) {
			return 16, nil
		}
		return 8, nil

	case OpBIT:
		v := c.readValue8(inst.Arg1)
		c.Regs.F.Zero = v&(1<<inst.Bit) == 0
		c.Regs.F.Subtract = false
		c.Regs.F.HalfCarry = true
		if isMemOperand(inst.Arg1) {
			return 12, nil
		}
		return 8, nil
	case OpRES:
		v := c.readValue8(inst.Arg1)
		c.writeValue8WithoutFetch(inst.Arg1, v&^(1<<inst.Bit))
		if isMemOperand(inst.Arg1) {
			return 16, nil
		}
		return 8, nil
	case OpSET:
		v := c.readValue8(inst.Arg1)
		c.writeValue8WithoutFetch(inst.Arg1, v|(1<<inst.Bit))
		if isMemOperand(inst.Arg1) {
			return 16, nil
		}
		return 8, nil
	}

	return 4, nil
}

// cbRotateShift applies a rotate/shift transform named by a CB opcode to
// its operand, updates Z/N/H/C (N and H always cleared, Z from the result,
// C from whatever the transform reports), and returns the T-cycle cost.
func (c *CPU) cbRotateShift(inst Instruction, transform func(uint8) (uint8, bool)) int {
	v := c.readValue8(inst.Arg1)
	result, carry := transform(v)
	c.writeValue8WithoutFetch(inst.Arg1, result)
	c.Regs.F = FlagsRegister{Zero: result == 0, Carry: carry}
	if isMemOperand(inst.Arg1) {
		return 16
	}
	return 8
}

// writeValue8WithoutFetch writes back an already-read-and-transformed
// read-modify-write operand (INC/DEC/CB ops). These operands are always
// OperandReg8 or OperandHLI — never an immediate or auto-indexed form — so
// this is writeValue8 restricted to the shapes that actually occur there.
func (c *CPU) writeValue8WithoutFetch(op Operand, v uint8) {
	c.writeValue8(op, v)
}

func (c *CPU) readReg16Arg(op Operand) uint16 {
	if op.Kind == OperandSP {
		return c.SP
	}
	return c.readReg16(op.Reg16)
}

func (c *CPU) writeReg16Arg(op Operand, v uint16) {
	if op.Kind == OperandSP {
		c.SP = v
		return
	}
	c.writeReg16(op.Reg16, v)
}

// aluCycles returns the cost of an A-vs-operand ALU instruction: 4 for a
// register operand, 8 for (HL) or an immediate byte.
func (c *CPU) aluCycles(src Operand) int {
	if src.Kind == OperandReg8 {
		return 4
	}
	return 8
}

// ldCycles returns the cost of an OpLD/OpLDH instruction based on its
// operand shapes, matching the canonical LR35902 timing table.
func (c *CPU) ldCycles(inst Instruction) int {
	isReg := func(op Operand) bool { return op.Kind == OperandReg8 || op.Kind == OperandAccumulator }
	switch {
	case isReg(inst.Arg1) && isReg(inst.Arg2):
		return 4
	case inst.Arg1.Kind == OperandA8Indirect || inst.Arg2.Kind == OperandA8Indirect:
		return 12
	case inst.Arg1.Kind == OperandA16Indirect || inst.Arg2.Kind == OperandA16Indirect:
		return 16
	case inst.Arg1.Kind == OperandD8:
		return 8
	default:
		// (HL)<->r, (HL)<->d8, (BC)/(DE)<->A, (HL+/-)<->A, (0xFF00+C)<->A
		if inst.Arg1.Kind == OperandHLI && inst.Arg2.Kind == OperandD8 {
			return 12
		}
		return 8
	}
}

// executeDAA adjusts A into packed BCD after an 8-bit addition or
// subtraction, consulting the Subtract/HalfCarry/Carry flags left by the
// preceding instruction.
func (c *CPU) executeDAA() {
	a := c.Regs.A
	var adjust uint8
	carry := c.Regs.F.Carry
	if c.Regs.F.Subtract {
		if c.Regs.F.HalfCarry {
			adjust += 0x06
		}
		if carry {
			adjust += 0x60
		}
		a -= adjust
	} else {
		if c.Regs.F.HalfCarry || a&0x0F > 0x09 {
			adjust += 0x06
		}
		if carry || a > 0x99 {
			adjust += 0x60
			carry = true
		}
		a += adjust
	}
	c.Regs.A = a
	c.Regs.F.Zero = a == 0
	c.Regs.F.HalfCarry = false
	c.Regs.F.Carry = carry
}
