// Command sif-msd converts a shard of the Million Song Dataset into CSV chunks.
//
//	sif-msd <num_workers> <worker_id>   run one worker of a pool
//	sif-msd plan <num_workers>          print the partition keys of every worker
//	sif-msd local <num_workers>         run a whole pool within this process
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
