// Package sim drives the framing core with a simulated radio channel:
// it assembles frames from generated field data, injects bit errors and
// unique-word corruption bursts, feeds the result through the channel
// manager and checks the extracted fields against what was transmitted.
package sim
