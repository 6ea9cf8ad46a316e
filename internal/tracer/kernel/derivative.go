package kernel

// Scharr5x5Gx and Scharr5x5Gy are the 5×5 Scharr derivative operators
// (divisor 60) used by the adaptive blur and gradient stages.
var (
	Scharr5x5Gx = New([][]int{
		{-1, -1, 0, 1, 1},
		{-2, -2, 0, 2, 2},
		{-3, -6, 0, 6, 3},
		{-2, -2, 0, 2, 2},
		{-1, -1, 0, 1, 1},
	}, 60)

	Scharr5x5Gy = New([][]int{
		{-1, -2, -3, -2, -1},
		{-1, -2, -6, -2, -1},
		{0, 0, 0, 0, 0},
		{1, 2, 6, 2, 1},
		{1, 2, 3, 2, 1},
	}, 60)
)

// Sobel5x5Gx and Sobel5x5Gy are the 5×5 Sobel-5 derivative operators
// (divisor 240), kept for reference parity with the historical scalar
// edge-detector variants (spec §9, "duplicated source variants").
var (
	Sobel5x5Gx = New([][]int{
		{-1, -2, 0, 2, 1},
		{-4, -8, 0, 8, 4},
		{-6, -12, 0, 12, 6},
		{-4, -8, 0, 8, 4},
		{-1, -2, 0, 2, 1},
	}, 240)

	Sobel5x5Gy = New([][]int{
		{-1, -4, -6, -4, -1},
		{-2, -8, -12, -8, -2},
		{0, 0, 0, 0, 0},
		{2, 8, 12, 8, 2},
		{1, 4, 6, 4, 1},
	}, 240)
)
