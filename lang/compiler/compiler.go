// Package compiler implements the single-pass compiler: it lexes (via the
// scanner package), parses with a Pratt precedence-climbing driver, resolves
// local-scope variable references, and emits bytecode directly — there is
// no intermediate AST. A nested *funcState is pushed for each `def`, giving
// every function its own Chunk and local-slot numbering.
package compiler

import (
	"strconv"

	"github.com/arlyon/fen/lang/scanner"
	"github.com/arlyon/fen/lang/token"
)

// MaxLocals is the largest number of local slots a single function may
// declare; slot indices are encoded as a single byte.
const MaxLocals = 256

// MaxParams is the largest number of parameters (or call arguments) a
// function may have; counts are encoded as a single byte.
const MaxParams = 255

// MaxBreaks is the largest number of break statements a single while loop
// may contain.
const MaxBreaks = 256

// Compile compiles source into a top-level function ("<script>", arity 0).
// If any compile error is encountered, it returns a nil proto and a non-nil
// ErrorList; partial compilation never escapes this function.
func Compile(source string) (*FunctionProto, error) {
	p := &parser{scan: scanner.New(source)}
	p.advance()

	fs := newFuncState(nil, "", 0)
	p.fs = fs

	for !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.EOF, "expect end of expression")

	proto := p.endFunction()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return proto, nil
}

// local records a declared variable's name and block depth. depth == -1
// means "declared but not yet initialized" (spec invariant: reading it is a
// compile error).
type local struct {
	name  string
	depth int
}

// loopCtx tracks the state needed to compile break/continue inside a while
// loop: where LOOP should jump back to, and the still-unpatched break jumps
// collected so far.
type loopCtx struct {
	start  int
	breaks []int
}

// funcState holds the compiler state for a single function body (or the
// top-level script). Nesting a `def` pushes a new funcState linked to its
// enclosing one, mirroring how the scanner's buffer does not change but the
// compile-time scope does.
type funcState struct {
	enclosing *funcState

	chunk *Chunk
	name  string
	arity int

	locals     []local
	scopeDepth int

	loops []*loopCtx
}

func newFuncState(enclosing *funcState, name string, arity int) *funcState {
	fs := &funcState{enclosing: enclosing, chunk: &Chunk{}, name: name, arity: arity}
	// Slot 0 is reserved for the called function's own value (the calling
	// convention's implicit receiver slot); it is never addressable by name.
	fs.locals = append(fs.locals, local{name: "", depth: 0})
	return fs
}

// parser is the single-pass compiler driver: a Pratt parser over the token
// stream that emits bytecode into the current funcState's chunk as it goes.
type parser struct {
	scan *scanner.Scanner
	fs   *funcState

	current  scanner.Token
	previous scanner.Token

	errs      ErrorList
	panicMode bool
}

func (p *parser) chunk() *Chunk { return p.fs.chunk }

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scan.Scan()
		if p.current.Kind != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parser) check(k token.Token) bool { return p.current.Kind == k }

func (p *parser) match(k token.Token) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Token, msg string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok scanner.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = ""
	}
	p.errs = append(p.errs, &Error{Line: tok.Line, Where: where, Msg: msg})
}

// synchronize consumes tokens until it finds a plausible statement boundary,
// so that a single syntax error does not cascade into a flood of bogus
// follow-on errors.
func (p *parser) synchronize() {
	p.panicMode = false
	for !p.check(token.EOF) {
		if p.previous.Kind == token.SEMI {
			return
		}
		if token.IsStmtStart(p.current.Kind) {
			return
		}
		p.advance()
	}
}

// --- bytecode emission helpers ---

func (p *parser) emit(b byte) { p.chunk().Write(b, p.previous.Line) }

func (p *parser) emitOp(op Opcode) { p.emit(byte(op)) }

func (p *parser) emitOps(op1, op2 Opcode) {
	p.emitOp(op1)
	p.emitOp(op2)
}

func (p *parser) emitByte(op Opcode, arg byte) {
	p.emitOp(op)
	p.emit(arg)
}

func (p *parser) emitConstant(v any) {
	idx := p.addConstant(v)
	p.emitByte(CONSTANT, byte(idx))
}

func (p *parser) addConstant(v any) int {
	if len(p.chunk().Constants) >= MaxConstants {
		p.error("too many constants in one chunk")
		return 0
	}
	return p.chunk().AddConstant(v)
}

// emitJump emits a jump opcode with a placeholder 2-byte operand and returns
// the offset of the first operand byte, to be patched later.
func (p *parser) emitJump(op Opcode) int {
	p.emitOp(op)
	p.emit(0xff)
	p.emit(0xff)
	return len(p.chunk().Code) - 2
}

func (p *parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > MaxJumpOffset {
		p.error("too much code to jump over")
		return
	}
	p.chunk().Code[offset] = byte(jump >> 8)
	p.chunk().Code[offset+1] = byte(jump)
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(LOOP)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > MaxJumpOffset {
		p.error("loop body too large")
		offset = 0
	}
	p.emit(byte(offset >> 8))
	p.emit(byte(offset))
}

// endFunction finalizes the current funcState's chunk (an implicit `return
// none` if control falls off the end) and pops back to the enclosing
// funcState, returning the finished proto.
func (p *parser) endFunction() *FunctionProto {
	p.emitOps(NONE, RETURN)
	proto := &FunctionProto{Name: p.fs.name, Arity: p.fs.arity, Chunk: p.fs.chunk}
	p.fs = p.fs.enclosing
	return proto
}

// --- scopes & locals ---

func (p *parser) beginScope() { p.fs.scopeDepth++ }

func (p *parser) endScope() {
	p.fs.scopeDepth--
	locs := p.fs.locals
	for len(locs) > 0 && locs[len(locs)-1].depth > p.fs.scopeDepth {
		p.emitOp(POP)
		locs = locs[:len(locs)-1]
	}
	p.fs.locals = locs
}

func (p *parser) addLocal(name string) {
	if len(p.fs.locals) >= MaxLocals {
		p.error("too many local variables in one function")
		return
	}
	for i := len(p.fs.locals) - 1; i >= 0; i-- {
		l := p.fs.locals[i]
		if l.depth != -1 && l.depth < p.fs.scopeDepth {
			break
		}
		if l.name == name {
			p.error("variable with this name already declared in this scope")
		}
	}
	p.fs.locals = append(p.fs.locals, local{name: name, depth: -1})
}

func (p *parser) markInitialized() {
	if p.fs.scopeDepth == 0 {
		return
	}
	p.fs.locals[len(p.fs.locals)-1].depth = p.fs.scopeDepth
}

// resolveLocal looks up name in the current function's locals, walking from
// the highest (most recently declared) slot down. It returns -1 if name is
// not a local, in which case the caller falls back to a global reference.
func (p *parser) resolveLocal(fs *funcState, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			if fs.locals[i].depth == -1 {
				p.error("can't read local variable in its own initializer")
			}
			return i
		}
	}
	return -1
}

// declareVariable records name as a new local at the current scope depth, or
// does nothing at depth 0 (globals are resolved by name, not by slot).
func (p *parser) declareVariable(name string) {
	if p.fs.scopeDepth == 0 {
		return
	}
	p.addLocal(name)
}

// parseVariable consumes an identifier and declares it, returning the
// constant-pool index of its name (meaningful only for globals).
func (p *parser) parseVariable(errMsg string) int {
	p.consume(token.IDENT, errMsg)
	name := p.previous.Lexeme
	p.declareVariable(name)
	if p.fs.scopeDepth > 0 {
		return 0
	}
	return p.addConstant(name)
}

func (p *parser) defineVariable(globalConst int) {
	if p.fs.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitByte(DEFINE_GLOBAL, byte(globalConst))
}

// --- declarations & statements ---

func (p *parser) declaration() {
	switch {
	case p.match(token.VAR):
		p.varDeclaration()
	case p.match(token.DEF):
		p.defDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) varDeclaration() {
	for {
		global := p.parseVariable("expect variable name")
		if p.match(token.EQ) {
			p.expression()
		} else {
			p.emitOp(NONE)
		}
		p.defineVariable(global)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.SEMI, "expect ';' after variable declaration")
}

func (p *parser) defDeclaration() {
	global := p.parseVariable("expect function name")
	p.markInitialized()
	p.function(p.previousFunctionName())
	p.defineVariable(global)
}

// previousFunctionName recovers the name just consumed by parseVariable; it
// is the token immediately preceding the current one only when called right
// after parseVariable, which is the sole caller.
func (p *parser) previousFunctionName() string {
	// parseVariable leaves p.previous as the IDENT token it consumed.
	return p.previous.Lexeme
}

func (p *parser) function(name string) {
	arity := 0
	parent := p.fs
	p.fs = newFuncState(parent, name, 0)
	p.beginScope()

	p.consume(token.LPAREN, "expect '(' after function name")
	if !p.check(token.RPAREN) {
		for {
			arity++
			if arity > MaxParams {
				p.errorAtCurrent("can't have more than 255 parameters")
			}
			p.consume(token.IDENT, "expect parameter name")
			p.addLocal(p.previous.Lexeme)
			p.markInitialized()
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters")
	p.consume(token.COLON, "expect ':' after function signature")
	p.fs.arity = arity

	for !p.check(token.END) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.END, "expect 'end' after function body")

	proto := p.endFunction() // pops p.fs back to parent
	p.emitConstant(proto)
}

func (p *parser) statement() {
	switch {
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.BREAK):
		p.breakStatement()
	case p.match(token.CONTINUE):
		p.continueStatement()
	default:
		p.expressionStatement()
	}
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMI, "expect ';' after expression")
	p.emitOp(POP)
}

func (p *parser) block() {
	p.beginScope()
	for !p.check(token.END) && !p.check(token.ELIF) && !p.check(token.ELSE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.endScope()
}

func (p *parser) ifStatement() {
	p.expression()
	p.consume(token.COLON, "expect ':' after condition")

	var exitJumps []int
	elseJump := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.block()
	exitJumps = append(exitJumps, p.emitJump(JUMP))
	p.patchJump(elseJump)
	p.emitOp(POP)

	for p.match(token.ELIF) {
		p.expression()
		p.consume(token.COLON, "expect ':' after condition")
		elseJump = p.emitJump(JUMP_IF_FALSE)
		p.emitOp(POP)
		p.block()
		exitJumps = append(exitJumps, p.emitJump(JUMP))
		p.patchJump(elseJump)
		p.emitOp(POP)
	}

	if p.match(token.ELSE) {
		p.consume(token.COLON, "expect ':' after 'else'")
		p.block()
	}

	p.consume(token.END, "expect 'end' to close 'if'")
	for _, j := range exitJumps {
		p.patchJump(j)
	}
}

func (p *parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	lc := &loopCtx{start: loopStart}
	p.fs.loops = append(p.fs.loops, lc)

	p.expression()
	p.consume(token.COLON, "expect ':' after condition")
	exitJump := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.block()
	p.consume(token.END, "expect 'end' to close 'while'")
	p.emitLoop(loopStart)
	p.patchJump(exitJump)
	p.emitOp(POP)

	for _, j := range lc.breaks {
		p.patchJump(j)
	}
	p.fs.loops = p.fs.loops[:len(p.fs.loops)-1]
}

func (p *parser) currentLoop() *loopCtx {
	if len(p.fs.loops) == 0 {
		return nil
	}
	return p.fs.loops[len(p.fs.loops)-1]
}

func (p *parser) breakStatement() {
	lc := p.currentLoop()
	if lc == nil {
		p.error("'break' outside of a loop")
	} else if len(lc.breaks) >= MaxBreaks {
		p.error("too many 'break' statements in one loop")
	}
	p.consume(token.SEMI, "expect ';' after 'break'")
	if lc != nil {
		lc.breaks = append(lc.breaks, p.emitJump(JUMP))
	}
}

func (p *parser) continueStatement() {
	lc := p.currentLoop()
	if lc == nil {
		p.error("'continue' outside of a loop")
	}
	p.consume(token.SEMI, "expect ';' after 'continue'")
	if lc != nil {
		p.emitLoop(lc.start)
	}
}

func (p *parser) returnStatement() {
	if p.fs.enclosing == nil {
		p.error("can't return from top-level code")
	}
	if p.match(token.SEMI) {
		p.emitOps(NONE, RETURN)
		return
	}
	p.expression()
	p.consume(token.SEMI, "expect ';' after return value")
	p.emitOp(RETURN)
}

// --- Pratt expression parsing ---

type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // > >= < <=
	precShift                 // << >>
	precBAnd                  // &
	precXor                   // ^
	precBOr                   // |
	precTerm                  // + -
	precFactor                // * / // %
	precUnary                 // ! - ~ (unary) / not
	precExponent              // **
	precCall                  // ()
	precSubscript             // []
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LPAREN:     {prefix: grouping, infix: call, precedence: precCall},
		token.LBRACK:     {prefix: list, infix: subscript, precedence: precSubscript},
		token.MINUS:      {prefix: unary, infix: binary, precedence: precTerm},
		token.PLUS:       {infix: binary, precedence: precTerm},
		token.TILDE:      {prefix: unary},
		token.SLASH:      {infix: binary, precedence: precFactor},
		token.SLASHSLASH: {infix: binary, precedence: precFactor},
		token.STAR:       {infix: binary, precedence: precFactor},
		token.PERCENT:    {infix: binary, precedence: precFactor},
		token.STARSTAR:   {infix: binary, precedence: precExponent},
		token.BANG:       {prefix: unary},
		token.BANG_EQ:    {infix: binary, precedence: precEquality},
		token.EQ_EQ:      {infix: binary, precedence: precEquality},
		token.GT:         {infix: binary, precedence: precComparison},
		token.GT_EQ:      {infix: binary, precedence: precComparison},
		token.LT:         {infix: binary, precedence: precComparison},
		token.LT_EQ:      {infix: binary, precedence: precComparison},
		token.AMP:        {infix: binary, precedence: precBAnd},
		token.PIPE:       {infix: binary, precedence: precBOr},
		token.CARET:      {infix: binary, precedence: precXor},
		token.LTLT:       {infix: binary, precedence: precShift},
		token.GTGT:       {infix: binary, precedence: precShift},
		token.IDENT:      {prefix: variable},
		token.NUMBER:     {prefix: number},
		token.STRING:     {prefix: stringLit},
		token.TRUE:       {prefix: literal},
		token.FALSE:      {prefix: literal},
		token.NONE:       {prefix: literal},
		token.NOT:        {prefix: notUnary, precedence: precNone},
		token.AND:        {infix: and_, precedence: precAnd},
		token.OR:         {infix: or_, precedence: precOr},
	}
}

func (p *parser) getRule(k token.Token) parseRule { return rules[k] }

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	prefixRule := p.getRule(p.previous.Kind).prefix
	if prefixRule == nil {
		p.error("expect expression")
		return
	}

	canAssign := prec <= precAssignment
	prefixRule(p, canAssign)

	for prec <= p.getRule(p.current.Kind).precedence {
		p.advance()
		infixRule := p.getRule(p.previous.Kind).infix
		infixRule(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("invalid assignment target")
	}
}

func number(p *parser, _ bool) {
	v, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("invalid number literal")
		return
	}
	p.emitConstant(v)
}

func stringLit(p *parser, _ bool) {
	p.emitConstant(p.previous.Lexeme)
}

func literal(p *parser, _ bool) {
	switch p.previous.Kind {
	case token.TRUE:
		p.emitOp(TRUE)
	case token.FALSE:
		p.emitOp(FALSE)
	case token.NONE:
		p.emitOp(NONE)
	}
}

func grouping(p *parser, _ bool) {
	p.expression()
	p.consume(token.RPAREN, "expect ')' after expression")
}

func unary(p *parser, _ bool) {
	opType := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opType {
	case token.MINUS:
		p.emitOp(NEGATE)
	case token.BANG:
		p.emitOp(NOT)
	case token.TILDE:
		p.emitOp(BNOT)
	}
}

// notUnary implements the `not` keyword. It is tabled at precNone for its
// prefix rule, matching the source's behavior: it only parses as a
// standalone leading operator, never chained as an infix/postfix form.
// `not not x` still works because parsePrecedence(precUnary) recurses.
func notUnary(p *parser, _ bool) {
	p.parsePrecedence(precUnary)
	p.emitOp(NOT)
}

func binary(p *parser, _ bool) {
	opType := p.previous.Kind
	rule := p.getRule(opType)

	nextPrec := rule.precedence + 1
	if opType == token.STARSTAR {
		// Right-associative: parse the RHS at the operator's own precedence,
		// not one higher, so a nested ** on the right recurses instead of
		// binding to this operator first.
		nextPrec = rule.precedence
	}
	p.parsePrecedence(nextPrec)

	switch opType {
	case token.EQ_EQ:
		p.emitOp(EQUAL)
	case token.BANG_EQ:
		p.emitOps(EQUAL, NOT)
	case token.GT:
		p.emitOp(GREATER)
	case token.GT_EQ:
		p.emitOps(LESS, NOT)
	case token.LT:
		p.emitOp(LESS)
	case token.LT_EQ:
		p.emitOps(GREATER, NOT)
	case token.PLUS:
		p.emitOp(ADD)
	case token.MINUS:
		p.emitOp(SUBTRACT)
	case token.STAR:
		p.emitOp(MULTIPLY)
	case token.SLASH:
		p.emitOp(DIVIDE)
	case token.SLASHSLASH:
		p.emitOp(INTDIV)
	case token.PERCENT:
		p.emitOp(MOD)
	case token.STARSTAR:
		p.emitOp(POW)
	case token.AMP:
		p.emitOp(BAND)
	case token.PIPE:
		p.emitOp(BOR)
	case token.CARET:
		p.emitOp(BXOR)
	case token.LTLT:
		p.emitOp(LSHIFT)
	case token.GTGT:
		p.emitOp(RSHIFT)
	}
}

func and_(p *parser, _ bool) {
	endJump := p.emitJump(JUMP_IF_FALSE)
	p.emitOp(POP)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func or_(p *parser, _ bool) {
	elseJump := p.emitJump(JUMP_IF_FALSE)
	endJump := p.emitJump(JUMP)
	p.patchJump(elseJump)
	p.emitOp(POP)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func variable(p *parser, canAssign bool) {
	name := p.previous.Lexeme

	var getOp, setOp Opcode
	var arg int
	if slot := p.resolveLocal(p.fs, name); slot != -1 {
		getOp, setOp, arg = GET_LOCAL, SET_LOCAL, slot
	} else {
		getOp, setOp, arg = GET_GLOBAL, SET_GLOBAL, p.addConstant(name)
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitByte(setOp, byte(arg))
		return
	}
	p.emitByte(getOp, byte(arg))
}

func list(p *parser, _ bool) {
	count := 0
	if !p.check(token.RBRACK) {
		for {
			if p.check(token.RBRACK) {
				break // trailing comma
			}
			p.parsePrecedence(precOr)
			count++
			if count > MaxConstants {
				p.error("too many elements in list literal")
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACK, "expect ']' after list elements")
	p.emitByte(BUILD_LIST, byte(count))
}

func subscript(p *parser, canAssign bool) {
	p.parsePrecedence(precOr)
	p.consume(token.RBRACK, "expect ']' after index")

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOp(STORE_SUBSCR)
		return
	}
	p.emitOp(INDEX_SUBSCR)
}

func call(p *parser, _ bool) {
	argCount := argumentList(p)
	p.emitByte(CALL, byte(argCount))
}

func argumentList(p *parser) int {
	count := 0
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			count++
			if count > MaxParams {
				p.error("can't have more than 255 arguments")
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after arguments")
	return count
}
