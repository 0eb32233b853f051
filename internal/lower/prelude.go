package lower

// preludeSource is the runtime support library emitted once at the top of
// the target text. It is plain JavaScript; the TypeScript dialect emits
// the same text unchanged, since none of it needs type annotations to be
// valid TS.
const preludeSource = `function __assert(kind, clause, pos, cond) {
  if (!cond) {
    throw new Error(kind + " violation (" + clause + ") at " + pos);
  }
}
function __requires(clause, pos, cond) { __assert("requires", clause, pos, cond); }
function __ensures(clause, pos, cond) { __assert("ensures", clause, pos, cond); }
function __invariant(clause, pos, cond) { __assert("invariant", clause, pos, cond); }
function __matchFail(pos) {
  throw new Error("match not exhaustive at " + pos);
}
function __clone(v) {
  if (Array.isArray(v)) {
    return v.map(__clone);
  }
  if (v !== null && typeof v === "object") {
    var out = {};
    for (var k in v) {
      out[k] = __clone(v[k]);
    }
    return out;
  }
  return v;
}
function Ok(value) { return { tag: "Ok", value: value }; }
function Err(error) { return { tag: "Err", error: error }; }
function isOk(r) { return r.tag === "Ok"; }
function isErr(r) { return r.tag === "Err"; }
function unwrap(r) {
  if (r && (r.tag === "Ok" || r.tag === "Err")) {
    if (r.tag === "Err") {
      throw r.error;
    }
    return r.value;
  }
  if (r && r.tag === "Some") {
    return r.value;
  }
  if (r && r.tag === "None") {
    throw new Error("unwrap called on None");
  }
  return r;
}
function Some(value) { return { tag: "Some", value: value }; }
function None() { return { tag: "None" }; }
function isSome(o) { return o.tag === "Some"; }
function isNone(o) { return o.tag === "None"; }
`

// ioEffectSource is the default handler record for the built-in IO effect
//.
const ioEffectSource = `const IO = {
  write: function(msg) { console.log(msg); },
  read: function() { return ""; },
};
`

// writePrelude always emits the full helper library: Ok/Err/Some/None/
// unwrap/__clone are needed regardless of the verify level (Result and
// Optional values exist independent of contract instrumentation). Only the
// requires/ensures/invariant *call sites* inside lowered function bodies
// disappear when opts.RuntimeContracts is false; see lowerFunc.
func (l *lowerer) writePrelude() {
	l.out.WriteString(preludeSource)
	l.out.WriteString(ioEffectSource)
}
