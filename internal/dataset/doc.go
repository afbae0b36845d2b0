// Package dataset reads and writes truck and pallet CSV files.
//
// A truck file holds a header line followed by "capacity,pallets". A pallet
// file holds a header line followed by one "id,weight,profit" row per pallet.
// Files are paired by the number in their name: TruckAndPallets_05.csv (or
// TP5.csv) goes with Pallets_05.csv (or P5.csv).
package dataset
