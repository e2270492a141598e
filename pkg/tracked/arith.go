package tracked

// Integer is satisfied by every built-in integer type and types defined on
// them.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is satisfied by the built-in floating-point types.
type Float interface {
	~float32 | ~float64
}

// Complex is satisfied by the built-in complex types.
type Complex interface {
	~complex64 | ~complex128
}

// Number is satisfied by every type supporting + - * /.
type Number interface {
	Integer | Float | Complex
}

// Addable is satisfied by every type supporting +=, which adds strings to
// Number.
type Addable interface {
	Number | ~string
}

// Toggle negates the boolean held by u.
func Toggle[T ~bool](u Updater[T]) {
	u.Modify(func(v *T) { *v = !*v })
}

// Add performs v += rhs. For strings this appends rhs.
func Add[T Addable](u Updater[T], rhs T) {
	u.Modify(func(v *T) { *v += rhs })
}

// Sub performs v -= rhs.
func Sub[T Number](u Updater[T], rhs T) {
	u.Modify(func(v *T) { *v -= rhs })
}

// Mul performs v *= rhs.
func Mul[T Number](u Updater[T], rhs T) {
	u.Modify(func(v *T) { *v *= rhs })
}

// Div performs v /= rhs. Integer division by zero panics inside the
// mutation; float division by zero yields an infinity or NaN.
func Div[T Number](u Updater[T], rhs T) {
	u.Modify(func(v *T) { *v /= rhs })
}

// Inc adds one to the number held by u.
func Inc[T Number](u Updater[T]) {
	u.Modify(func(v *T) { *v++ })
}

// Dec subtracts one from the number held by u.
func Dec[T Number](u Updater[T]) {
	u.Modify(func(v *T) { *v-- })
}
