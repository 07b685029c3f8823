package fec

var (
	// Hamming743 protects the TACT bits of the CACH.
	Hamming743 = MustNew("Hamming", 7, [][]int{
		{0, 1, 2},
		{1, 2, 3},
		{0, 1, 3},
	}, 1)

	// Hamming1393 protects the columns of the BPTC(196,96) matrix.
	Hamming1393 = MustNew("Hamming", 13, [][]int{
		{0, 1, 3, 5, 6},
		{0, 1, 2, 4, 6, 7},
		{0, 1, 2, 3, 5, 7, 8},
		{0, 2, 4, 5, 8},
	}, 1)

	// Hamming15113 protects the rows of the BPTC(196,96) matrix.
	Hamming15113 = MustNew("Hamming", 15, [][]int{
		{0, 1, 2, 3, 5, 7, 8},
		{1, 2, 3, 4, 6, 8, 9},
		{2, 3, 4, 5, 7, 9, 10},
		{0, 1, 2, 4, 6, 7, 10},
	}, 1)

	// Hamming16114 protects the rows of the embedded signalling BPTC; the
	// extra parity bit detects all double errors.
	Hamming16114 = MustNew("Hamming", 16, [][]int{
		{0, 1, 2, 3, 5, 7, 8},
		{1, 2, 3, 4, 6, 8, 9},
		{2, 3, 4, 5, 7, 9, 10},
		{0, 1, 2, 4, 6, 7, 10},
		{0, 2, 5, 6, 8, 9, 10},
	}, 1)

	// Golay2087 protects the slot type (color code and data type).
	Golay2087 = MustNew("Golay", 20, [][]int{
		{1, 4, 5, 6, 7},
		{1, 2, 4},
		{0, 2, 3, 5},
		{0, 1, 3, 4, 6},
		{0, 1, 2, 4, 5, 7},
		{0, 2, 3, 4, 7},
		{3, 6, 7},
		{0, 1, 5, 6},
		{0, 1, 2, 6, 7},
		{2, 3, 4, 5, 6},
		{0, 3, 4, 5, 6, 7},
		{1, 2, 3, 5, 7},
	}, 3)

	// QR1676 is the quadratic residue (16,7,6) code protecting the embedded
	// signalling (EMB) of voice bursts.
	QR1676 = MustNew("QR", 16, [][]int{
		{1, 2, 3, 4},
		{2, 3, 4, 5},
		{0, 3, 4, 5, 6},
		{2, 3, 5, 6},
		{1, 2, 6},
		{0, 1, 4},
		{0, 1, 2, 5},
		{0, 1, 2, 3, 6},
		{0, 2, 4, 5, 6},
	}, 2)
)
