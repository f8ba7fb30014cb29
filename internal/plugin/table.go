package plugin

import "goapl/internal/aplerr"

// Table is a bound plugin: a Dispatcher plus the signature it advertised
// through get_signature, so repeated calls don't re-probe the vocabulary.
type Table struct {
	Name      string
	Signature Signature
	dispatch  Dispatcher
	closeFun  func()
}

// Bind probes d for get_signature and close_fun and wraps the remainder of
// the vocabulary behind typed call methods.
func Bind(name string, d Dispatcher) (*Table, *aplerr.Error) {
	raw := d("get_signature")
	sigFn, ok := raw.(func() Signature)
	if !ok {
		return nil, aplerr.New(aplerr.DOMAIN, "plugin %s: get_signature has the wrong type", name)
	}
	t := &Table{Name: name, Signature: sigFn(), dispatch: d}
	if cf, ok := d("close_fun").(func()); ok {
		t.closeFun = cf
	}
	return t, nil
}

// Close calls the table's close_fun, if it advertised one, releasing any
// native resources it holds.
func (t *Table) Close() {
	if t.closeFun != nil {
		t.closeFun()
	}
}

func (t *Table) lookup(entry string) (any, *aplerr.Error) {
	fn := t.dispatch(entry)
	if fn == nil {
		return nil, aplerr.New(aplerr.DOMAIN, "plugin %s does not implement %s", t.Name, entry)
	}
	return fn, nil
}

func badSignature(table, entry string) Token {
	return ErrorToken(aplerr.New(aplerr.DOMAIN, "plugin %s: %s has the wrong signature", table, entry))
}

// Eval0 calls the niladic form ("eval_").
func (t *Table) Eval0() Token {
	fn, err := t.lookup("eval_")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(Func0)
	if !ok {
		return badSignature(t.Name, "eval_")
	}
	return f()
}

// EvalB calls the monadic form.
func (t *Table) EvalB(b Token) Token {
	fn, err := t.lookup("eval_B")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncB)
	if !ok {
		return badSignature(t.Name, "eval_B")
	}
	return f(b)
}

// EvalAB calls the dyadic form.
func (t *Table) EvalAB(a, b Token) Token {
	fn, err := t.lookup("eval_AB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncAB)
	if !ok {
		return badSignature(t.Name, "eval_AB")
	}
	return f(a, b)
}

// EvalXB calls the monadic axis form.
func (t *Table) EvalXB(x, b Token) Token {
	fn, err := t.lookup("eval_XB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncXB)
	if !ok {
		return badSignature(t.Name, "eval_XB")
	}
	return f(x, b)
}

// EvalAXB calls the dyadic axis form.
func (t *Table) EvalAXB(a, x, b Token) Token {
	fn, err := t.lookup("eval_AXB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncAXB)
	if !ok {
		return badSignature(t.Name, "eval_AXB")
	}
	return f(a, x, b)
}

// EvalLB calls the monadic-operator form with one function operand.
func (t *Table) EvalLB(l Func, b Token) Token {
	fn, err := t.lookup("eval_LB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncLB)
	if !ok {
		return badSignature(t.Name, "eval_LB")
	}
	return f(l, b)
}

// EvalALB calls the dyadic-operator form with one function operand.
func (t *Table) EvalALB(a Token, l Func, b Token) Token {
	fn, err := t.lookup("eval_ALB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncALB)
	if !ok {
		return badSignature(t.Name, "eval_ALB")
	}
	return f(a, l, b)
}

// EvalLXB calls the monadic-operator axis form.
func (t *Table) EvalLXB(l Func, x, b Token) Token {
	fn, err := t.lookup("eval_LXB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncLXB)
	if !ok {
		return badSignature(t.Name, "eval_LXB")
	}
	return f(l, x, b)
}

// EvalALXB calls the dyadic-operator axis form.
func (t *Table) EvalALXB(a Token, l Func, x, b Token) Token {
	fn, err := t.lookup("eval_ALXB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncALXB)
	if !ok {
		return badSignature(t.Name, "eval_ALXB")
	}
	return f(a, l, x, b)
}

// EvalLRB calls the monadic two-operand-operator form (e.g. a dyadic
// operator's derived function applied monadically).
func (t *Table) EvalLRB(l, r Func, b Token) Token {
	fn, err := t.lookup("eval_LRB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncLRB)
	if !ok {
		return badSignature(t.Name, "eval_LRB")
	}
	return f(l, r, b)
}

// EvalALRB calls the dyadic two-operand-operator form.
func (t *Table) EvalALRB(a Token, l, r Func, b Token) Token {
	fn, err := t.lookup("eval_ALRB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncALRB)
	if !ok {
		return badSignature(t.Name, "eval_ALRB")
	}
	return f(a, l, r, b)
}

// EvalLRXB calls the monadic two-operand-operator axis form.
func (t *Table) EvalLRXB(l, r Func, x, b Token) Token {
	fn, err := t.lookup("eval_LRXB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncLRXB)
	if !ok {
		return badSignature(t.Name, "eval_LRXB")
	}
	return f(l, r, x, b)
}

// EvalALRXB calls the dyadic two-operand-operator axis form.
func (t *Table) EvalALRXB(a Token, l, r Func, x, b Token) Token {
	fn, err := t.lookup("eval_ALRXB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncALRXB)
	if !ok {
		return badSignature(t.Name, "eval_ALRXB")
	}
	return f(a, l, r, x, b)
}

// EvalFillB calls the monadic fill-value form (the identity element a
// reduction uses over an empty axis).
func (t *Table) EvalFillB(b Token) Token {
	fn, err := t.lookup("eval_fill_B")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncFillB)
	if !ok {
		return badSignature(t.Name, "eval_fill_B")
	}
	return f(b)
}

// EvalFillAB calls the dyadic fill-value form.
func (t *Table) EvalFillAB(a, b Token) Token {
	fn, err := t.lookup("eval_fill_AB")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncFillAB)
	if !ok {
		return badSignature(t.Name, "eval_fill_AB")
	}
	return f(a, b)
}

// EvalIdentBx calls the identity-element-for-axis form a reduce operator
// uses to seed a fold.
func (t *Table) EvalIdentBx(b Token, axis int) Token {
	fn, err := t.lookup("eval_ident_Bx")
	if err != nil {
		return ErrorToken(err)
	}
	f, ok := fn.(FuncIdentBx)
	if !ok {
		return badSignature(t.Name, "eval_ident_Bx")
	}
	return f(b, axis)
}
