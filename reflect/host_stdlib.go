package reflect

import "github.com/phlint-dev/phlint/types"

// stdlibHost is the default HostProvider: a small, representative slice
// of the language's built-in classes and functions — a hand-written
// table of signatures the checker treats as already-reflected, instead
// of parsed source.
type stdlibHost struct{}

// NewStdlibHost returns the built-in surface phlint ships with by
// default. Embedders that need the full host class/function catalog for
// a real deployment replace this with a HostProvider generated from the
// target runtime's reflection API.
func NewStdlibHost() HostProvider { return stdlibHost{} }

func named(name string) types.Type       { return types.NewNamed(name, false) }
func nullable(name string) types.Type    { return types.NewNamed(name, true) }

func (stdlibHost) Classes() []ClassInfo {
	stringable := ClassInfo{
		QualifiedName: "Stringable",
		Kind:          0,
		Methods: map[string]FunctionSig{
			"__tostring": {QualifiedName: "Stringable::__toString", ReturnType: named(types.String), Host: true},
		},
	}
	stringable.Kind = 1 // interface
	stringable.InterfaceNamesClosure = map[string]bool{}

	countable := ClassInfo{
		QualifiedName: "Countable",
		Kind:          1,
		Methods: map[string]FunctionSig{
			"count": {QualifiedName: "Countable::count", ReturnType: named(types.Int), Host: true},
		},
		InterfaceNamesClosure: map[string]bool{},
	}

	arrayAccess := ClassInfo{
		QualifiedName: "ArrayAccess",
		Kind:          1,
		Methods: map[string]FunctionSig{
			"offsetexists": {QualifiedName: "ArrayAccess::offsetExists", ReturnType: named(types.Bool), Host: true,
				Parameters: []ParamInfo{{Name: "offset", Type: named(types.Mixed)}}},
			"offsetget": {QualifiedName: "ArrayAccess::offsetGet", ReturnType: named(types.Mixed), Host: true,
				Parameters: []ParamInfo{{Name: "offset", Type: named(types.Mixed)}}},
			"offsetset": {QualifiedName: "ArrayAccess::offsetSet", ReturnType: named(types.Void), Host: true,
				Parameters: []ParamInfo{{Name: "offset", Type: named(types.Mixed)}, {Name: "value", Type: named(types.Mixed)}}},
			"offsetunset": {QualifiedName: "ArrayAccess::offsetUnset", ReturnType: named(types.Void), Host: true,
				Parameters: []ParamInfo{{Name: "offset", Type: named(types.Mixed)}}},
		},
		InterfaceNamesClosure: map[string]bool{},
	}

	throwable := ClassInfo{
		QualifiedName: "Throwable",
		Kind:          1,
		Methods: map[string]FunctionSig{
			"getmessage": {QualifiedName: "Throwable::getMessage", ReturnType: named(types.String), Host: true},
			"getcode":    {QualifiedName: "Throwable::getCode", ReturnType: named(types.Int), Host: true},
		},
		InterfaceNamesClosure: map[string]bool{"stringable": true},
	}

	exception := ClassInfo{
		QualifiedName: "Exception",
		Kind:          0,
		Properties: map[string]PropInfo{
			"message": {Name: "message", Type: named(types.String), Modifiers: 1 << 1},
			"code":    {Name: "code", Type: named(types.Int), Modifiers: 1 << 1},
		},
		Methods: map[string]FunctionSig{
			"__construct": {QualifiedName: "Exception::__construct", ReturnType: named(types.Void), Host: true,
				Parameters: []ParamInfo{
					{Name: "message", Type: named(types.String), Optional: true, HasDefault: true},
					{Name: "code", Type: named(types.Int), Optional: true, HasDefault: true},
					{Name: "previous", Type: nullable("Throwable"), Optional: true, HasDefault: true},
				}},
			"getmessage": {QualifiedName: "Exception::getMessage", ReturnType: named(types.String), Host: true},
			"getcode":    {QualifiedName: "Exception::getCode", ReturnType: named(types.Int), Host: true},
		},
		InterfaceNamesClosure: map[string]bool{"throwable": true, "stringable": true},
	}

	runtimeException := ClassInfo{
		QualifiedName:         "RuntimeException",
		Kind:                  0,
		InterfaceNamesClosure: map[string]bool{"throwable": true, "stringable": true},
	}

	invalidArgumentException := ClassInfo{
		QualifiedName:         "InvalidArgumentException",
		Kind:                  0,
		InterfaceNamesClosure: map[string]bool{"throwable": true, "stringable": true},
	}

	stdClass := ClassInfo{
		QualifiedName:         "stdClass",
		Kind:                  0,
		InterfaceNamesClosure: map[string]bool{},
	}

	jsonSerializable := ClassInfo{
		QualifiedName: "JsonSerializable",
		Kind:          1,
		Methods: map[string]FunctionSig{
			"jsonserialize": {QualifiedName: "JsonSerializable::jsonSerialize", ReturnType: named(types.Mixed), Host: true},
		},
		InterfaceNamesClosure: map[string]bool{},
	}

	backedEnum := ClassInfo{
		QualifiedName: "BackedEnum",
		Kind:          1,
		Methods: map[string]FunctionSig{
			"from":    {QualifiedName: "BackedEnum::from", ReturnType: types.Unknown, Host: true, Parameters: []ParamInfo{{Name: "value", Type: named(types.Mixed)}}},
			"tryfrom": {QualifiedName: "BackedEnum::tryFrom", ReturnType: types.Unknown, Host: true, Parameters: []ParamInfo{{Name: "value", Type: named(types.Mixed)}}},
		},
		InterfaceNamesClosure: map[string]bool{},
	}

	runtimeException.ParentName = "Exception"
	invalidArgumentException.ParentName = "Exception"

	return []ClassInfo{
		stringable, countable, arrayAccess, throwable, exception,
		runtimeException, invalidArgumentException, stdClass,
		jsonSerializable, backedEnum,
	}
}

func (stdlibHost) Functions() []FunctionSig {
	str := named(types.String)
	i := named(types.Int)
	f := named(types.Float)
	b := named(types.Bool)
	arr := named(types.Array)
	mixed := named(types.Mixed)

	fn := func(name string, ret types.Type, params ...ParamInfo) FunctionSig {
		sig := FunctionSig{QualifiedName: name, ReturnType: ret, Parameters: params, Host: true}
		if n := len(params); n > 0 && params[n-1].Variadic {
			sig.IsVariadic = true
			sig.Parameters[n-1].Optional = true
		}
		return sig
	}
	p := func(name string, t types.Type) ParamInfo { return ParamInfo{Name: name, Type: t} }
	opt := func(name string, t types.Type) ParamInfo { return ParamInfo{Name: name, Type: t, Optional: true, HasDefault: true} }

	return []FunctionSig{
		fn("print", i, p("value", mixed)),
		fn("var_dump", named(types.Void), ParamInfo{Name: "values", Type: mixed, Variadic: true}),
		fn("printf", i, p("format", str), ParamInfo{Name: "values", Type: mixed, Variadic: true}),
		fn("strlen", i, p("string", str)),
		fn("strtolower", str, p("string", str)),
		fn("strtoupper", str, p("string", str)),
		fn("trim", str, p("string", str), opt("characters", str)),
		fn("substr", str, p("string", str), p("offset", i), opt("length", nullable(types.Int))),
		fn("str_repeat", str, p("string", str), p("times", i)),
		fn("sprintf", str, p("format", str), ParamInfo{Name: "values", Type: mixed, Variadic: true}),
		fn("implode", str, p("separator", str), p("array", arr)),
		fn("explode", arr, p("separator", str), p("string", str)),
		fn("count", i, p("value", named(types.Iterable))),
		fn("array_map", arr, p("callback", named(types.Callable)), ParamInfo{Name: "arrays", Type: arr, Variadic: true}),
		fn("array_filter", arr, p("array", arr), opt("callback", named(types.Callable))),
		fn("array_merge", arr, ParamInfo{Name: "arrays", Type: arr, Variadic: true}),
		fn("array_keys", arr, p("array", arr)),
		fn("array_values", arr, p("array", arr)),
		fn("in_array", b, p("needle", mixed), p("haystack", arr), opt("strict", b)),
		fn("is_array", b, p("value", mixed)),
		fn("is_string", b, p("value", mixed)),
		fn("is_int", b, p("value", mixed)),
		fn("is_numeric", b, p("value", mixed)),
		fn("is_null", b, p("value", mixed)),
		fn("is_callable", b, p("value", mixed)),
		fn("gettype", str, p("value", mixed)),
		fn("var_export", nullable(types.String), p("value", mixed), opt("return", b)),
		fn("json_encode", nullable(types.String), p("value", mixed), opt("flags", i)),
		fn("json_decode", mixed, p("json", str), opt("associative", b)),
		fn("abs", f, p("value", f)),
		fn("max", mixed, ParamInfo{Name: "values", Type: mixed, Variadic: true}),
		fn("min", mixed, ParamInfo{Name: "values", Type: mixed, Variadic: true}),
		fn("intval", i, p("value", mixed), opt("base", i)),
		fn("floatval", f, p("value", mixed)),
		fn("strval", str, p("value", mixed)),
		fn("boolval", b, p("value", mixed)),
		fn("get_class", nullable(types.String), opt("object", named(types.Object))),
	}
}

func (stdlibHost) Constants() []ConstValue {
	return []ConstValue{
		{Name: "PHP_EOL", Type: named(types.String)},
		{Name: "PHP_INT_MAX", Type: named(types.Int)},
		{Name: "PHP_INT_MIN", Type: named(types.Int)},
		{Name: "PHP_FLOAT_EPSILON", Type: named(types.Float)},
		{Name: "M_PI", Type: named(types.Float)},
		{Name: "JSON_PRETTY_PRINT", Type: named(types.Int)},
		{Name: "E_ALL", Type: named(types.Int)},
	}
}
