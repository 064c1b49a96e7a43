package redis

// Key layout:
//
//	cascade:ckpt:<checkpoint_id>   JSON checkpoint value
//	cascade:run:<run_id>:ckpts     set of checkpoint IDs for the run

func checkpointKey(checkpointID string) string {
	return "cascade:ckpt:" + checkpointID
}

func runIndexKey(runID string) string {
	return "cascade:run:" + runID + ":ckpts"
}
