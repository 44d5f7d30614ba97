// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/pkg/util/fileutil"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
)

// Multi-language support
var (
	_accountCmdShorts = map[config.Language]string{
		config.English: "Manage the wallet used to claim Zonemap names",
		config.Chinese: "管理用于认领Zonemap名称的钱包",
	}
	_accountCmdUses = map[config.Language]string{
		config.English: "account",
		config.Chinese: "账户",
	}
)

// Errors
var (
	// ErrPasswdNotMatch indicates two entered passwords differ
	ErrPasswdNotMatch = errors.New("password doesn't match")
	// ErrNoWallet indicates no wallet has been created yet
	ErrNoWallet = errors.New("no wallet found, run 'zmctl account create' first")
	// ErrWrongPassword indicates the mnemonic could not be decrypted
	ErrWrongPassword = errors.New("wrong password")
)

// AccountCmd represents the account command
var AccountCmd = &cobra.Command{
	Use:   config.TranslateInLang(_accountCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_accountCmdShorts, config.UILanguage),
}

var _walletFile = config.ReadConfig.Wallet + "/mnemonic"

func init() {
	AccountCmd.AddCommand(_accountCreateCmd)
	AccountCmd.AddCommand(_accountImportCmd)
	AccountCmd.AddCommand(_accountExportCmd)
	AccountCmd.AddCommand(_accountDeleteCmd)
}

// Signer loads the wallet mnemonic and derives the signing key
func Signer(password string) (wallet.Signer, error) {
	mnemonic, err := Mnemonic(password)
	if err != nil {
		return nil, err
	}
	signer, err := wallet.NewKeySignerFromMnemonic(mnemonic, wallet.DefaultDerivationPath)
	if err != nil {
		return nil, output.NewError(output.CryptoError, "failed to derive key from mnemonic", err)
	}
	return signer, nil
}

// Mnemonic decrypts the stored mnemonic phrase
func Mnemonic(password string) (string, error) {
	enc, err := loadWallet()
	if err != nil {
		return "", err
	}
	dec, err := util.Decrypt(enc, util.HashSHA256([]byte(password)))
	if err != nil {
		return "", output.NewError(output.CryptoError, "failed to decrypt wallet", err)
	}
	if len(dec) <= 32 {
		return "", output.NewError(output.CryptoError, ErrWrongPassword.Error(), nil)
	}
	// the stored blob carries a hash of the phrase, a mismatch means the
	// password derived the wrong AES key
	mnemonic, sum := dec[:len(dec)-32], dec[len(dec)-32:]
	if !bytes.Equal(util.HashSHA256(mnemonic), sum) {
		return "", output.NewError(output.CryptoError, ErrWrongPassword.Error(), nil)
	}
	return string(mnemonic), nil
}

func saveWallet(mnemonic, password string) error {
	enctxt := append([]byte(mnemonic), util.HashSHA256([]byte(mnemonic))...)
	enckey := util.HashSHA256([]byte(password))
	out, err := util.Encrypt(enctxt, enckey)
	if err != nil {
		return output.NewError(output.ValidationError, "failed to encrypt mnemonic", nil)
	}
	if err := os.WriteFile(_walletFile, out, 0600); err != nil {
		return output.NewError(output.WriteFileError,
			fmt.Sprintf("failed to write to wallet file %s", _walletFile), err)
	}
	return nil
}

func loadWallet() ([]byte, error) {
	if !fileutil.FileExists(_walletFile) {
		return nil, output.NewError(output.ReadFileError, ErrNoWallet.Error(), nil)
	}
	enc, err := os.ReadFile(_walletFile)
	if err != nil {
		return nil, output.NewError(output.ReadFileError,
			fmt.Sprintf("failed to read wallet file %s", _walletFile), err)
	}
	return enc, nil
}

// doubly prompts for a new password and requires both entries to agree
func newPassword() (string, error) {
	output.PrintQuery("Set password\n")
	password, err := util.ReadSecretFromStdin()
	if err != nil {
		return "", output.NewError(output.InputError, "failed to get password", err)
	}
	output.PrintQuery("Enter password again\n")
	passwordAgain, err := util.ReadSecretFromStdin()
	if err != nil {
		return "", output.NewError(output.InputError, "failed to get password", err)
	}
	if password != passwordAgain {
		return "", output.NewError(output.ValidationError, ErrPasswdNotMatch.Error(), nil)
	}
	return password, nil
}
