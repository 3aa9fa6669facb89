package testutil

// BaseWasm is a module exporting:
//
//	double(i32) -> i32       index 0, returns 2x
//	_initialize()            index 1, increments counter
//	memory                   one page
//	counter                  mutable i32 global, initially 7
var BaseWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: (i32)->i32, ()->()
	0x01, 0x09, 0x02, 0x60, 0x01, 0x7f, 0x01, 0x7f, 0x60, 0x00, 0x00,
	// function
	0x03, 0x03, 0x02, 0x00, 0x01,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global
	0x06, 0x06, 0x01, 0x7f, 0x01, 0x41, 0x07, 0x0b,
	// export
	0x07, 0x2b, 0x04,
	0x06, 'd', 'o', 'u', 'b', 'l', 'e', 0x00, 0x00,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x07, 'c', 'o', 'u', 'n', 't', 'e', 'r', 0x03, 0x00,
	0x0b, '_', 'i', 'n', 'i', 't', 'i', 'a', 'l', 'i', 'z', 'e', 0x00, 0x01,
	// code
	0x0a, 0x13, 0x02,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x00, 0x6a, 0x0b,
	0x09, 0x00, 0x23, 0x00, 0x41, 0x01, 0x6a, 0x24, 0x00, 0x0b,
}

// AddGuestWasm imports env.add(i32, i32) -> i32 and exports run() -> i32,
// which returns add(2, 3).
var AddGuestWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x0b, 0x02, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, 0x60, 0x00, 0x01, 0x7f,
	0x02, 0x0b, 0x01, 0x03, 'e', 'n', 'v', 0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x03, 0x02, 0x01, 0x01,
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x01,
	0x0a, 0x0a, 0x01, 0x08, 0x00, 0x41, 0x02, 0x41, 0x03, 0x10, 0x00, 0x0b,
}

// AddDoubleGuestWasm imports env.add(i32, i32) -> i32 and
// env.double(i32) -> i32 and exports run() -> i32, which returns
// double(add(2, 3)).
var AddDoubleGuestWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x10, 0x03,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x60, 0x00, 0x01, 0x7f,
	0x02, 0x18, 0x02,
	0x03, 'e', 'n', 'v', 0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x03, 'e', 'n', 'v', 0x06, 'd', 'o', 'u', 'b', 'l', 'e', 0x00, 0x01,
	0x03, 0x02, 0x01, 0x02,
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x02,
	0x0a, 0x0c, 0x01, 0x0a, 0x00, 0x41, 0x02, 0x41, 0x03, 0x10, 0x00, 0x10, 0x01, 0x0b,
}
