package service

import (
	"fmt"
	"strings"

	"alto_bot/internal/model"
)

const divider = "=============================="

const (
	textWelcome         = "👋 Halo! Selamat datang di ALTO Bot. Akun baru telah dibuat untukmu."
	textCancelled       = "Aksi dibatalkan."
	textInvalidChoice   = "Pilihan tidak valid."
	textBusy            = "⏳ Pesan sebelumnya masih diproses. Coba lagi sebentar."
	textFailure         = "⚠️ Terjadi kesalahan saat menyimpan data. Silakan coba lagi."
	textAssistantFailed = "🤖 Maaf, ALTO sedikit sibuk. Coba lagi nanti."

	textWithdrawInvalidAmount = "Nominal tidak valid. Harap masukkan angka saja."
	textWithdrawEmpty         = "Input tidak boleh kosong. Silakan ketik ulang."
	textWithdrawDone          = "✅ Permintaan withdraw Anda telah dikirim ke admin untuk diproses. Saldo Anda telah dipotong. Terima kasih!"

	textBonusClaimed  = "Anda sudah mengklaim bonus harian hari ini. Coba lagi besok."
	textCaptchaOK     = "✅ Verifikasi berhasil!"
	textCaptchaFailed = "❌ Verifikasi salah. Proses dibatalkan."

	textNoTasks         = "Tidak ada tugas yang tersedia saat ini."
	textSelesaiUsage    = "Gunakan format */selesai [id_tugas]*. Contoh: */selesai 1*"
	textNotWorkingOnIt  = "Anda tidak sedang mengerjakan tugas ini atau tugas sudah selesai."
	textNoRiddles       = "Maaf, persediaan teka-teki sedang kosong."
	textGuessInvalid    = "🤖 Masukkan angka yang valid!"
	textGuessTooLow     = "🤖 Terlalu rendah! Coba lagi."
	textGuessTooHigh    = "🤖 Terlalu tinggi! Coba lagi."
	textRiddleWrong     = "Jawaban salah, coba lagi!"
	textShopEmpty       = "Daftar Olshop sedang kosong."
	textUnknownCommand  = "Perintah tidak dikenali. Coba /menu."
	textUnknownAdminCmd = "Perintah admin tidak dikenali."
	textAdminLoggedIn   = "👑 Anda berhasil masuk sebagai admin."
	textAdminWrongPass  = "❌ Kata sandi admin salah."
	textNoTasksCreated  = "Belum ada tugas yang dibuat."
	textTaskNotFound    = "❌ Tugas dengan ID tersebut tidak ditemukan."

	usageBlockUser   = "Penggunaan: /blockuser <id>"
	usageUnblockUser = "Penggunaan: /unblockuser <id>"
	usageDeleteUser  = "Penggunaan: /deleteuser <id>"
	usageAddTask     = "Penggunaan salah: /addtugas <hadiah> <durasi> <nama> <link> <deskripsi>"
	usageDeleteTask  = "Penggunaan: /hapustugas <id>"
	usageSetBonus    = "Penggunaan salah. Contoh: /setbonus 100 500"
)

const textMainMenu = divider + `
------------ 🏠 MENU UTAMA ---------------
` + divider + `

1. 👤 Profil
2. 🏦 Withdraw
3. 🎁 Klaim Bonus Harian
4. 📝 Lihat & Kerjakan Tugas
5. 🎮 Main Game
6. 🛒 Shop (Olshop Pilihan)
7. 📞 Hubungi Owner
8. 🤖 Hapus Riwayat Obrolan

` + divider + `
*Balas dengan nomor pilihan Anda (contoh: 1)*
` + divider

const textAdminMenu = "\n\n--- 👑 MENU ADMIN ---\nGunakan perintah seperti biasa (contoh: */listusers*)."

const textGameMenu = divider + `
---------- 🎮 PILIH GAME ----------
` + divider + `

Pilih game yang ingin kamu mainkan:

1. 🔢 Game Tebak Angka
2. 🤔 Game Teka Teki Mudah

` + divider + `
*Balas dengan nomor pilihan Anda*
*0* untuk kembali
` + divider

const textGuessStart = divider + `
------- 🔢 GAME TEBAK ANGKA -------
` + divider + `

Saya telah memilih angka antara 1 dan 100. Coba tebak!

` + divider + `
*Ketik tebakan Anda (contoh: 50)*
*0* untuk menyerah & kembali
` + divider

const textHistoryCleared = divider + `
------- 🤖 RIWAYAT DIHAPUS -------
` + divider + `

Riwayat obrolan Anda dengan AI telah berhasil dihapus.`

const footerBackHome = divider + `
*0* untuk kembali
*00* untuk ke menu utama
` + divider

func menuText(user *model.User) string {
	if user.IsAdmin {
		return textMainMenu + textAdminMenu
	}
	return textMainMenu
}

func profileText(user *model.User) string {
	return fmt.Sprintf(`%s
---------------------- PROFIL ---------------------
%s

👤: %s
💰: Rp.%d

%s
*0* untuk kembali
%s`, divider, divider, user.ID, user.Balance, divider, divider)
}

func withdrawStartText(balance int64) string {
	return fmt.Sprintf(`%s
------------------- WITHDRAW -----------------
%s

💰 Saldo Anda: Rp.%d

*Ketik nominal penarikan (contoh: 10000)*

%s`, divider, divider, balance, footerBackHome)
}

func insufficientBalanceText(balance int64) string {
	return fmt.Sprintf("Saldo tidak cukup. Saldo Anda: Rp.%d", balance)
}

func withdrawAmountText(amount int64) string {
	return fmt.Sprintf("Nominal: Rp.%d\n\n*Ketik nama bank (contoh: bca/bri/dana/ovo/gopay)*", amount)
}

func withdrawBankText(bank string) string {
	return fmt.Sprintf("Bank: %s\n\n*Ketik nama pemilik rekening*", bank)
}

func withdrawNameText(name string) string {
	return fmt.Sprintf("Nama: %s\n\n*Ketik nomor rekening/telepon*", name)
}

func withdrawNotificationText(req model.WithdrawalRequest) string {
	return fmt.Sprintf("--- 🏦 PERMINTAAN WITHDRAW ---\nID: %s\nUser: %s\nJumlah: Rp.%d\nBank: %s\nNama: %s\nNo. Rek: %s\n\nHarap segera diproses.",
		req.RequestID, req.UserID, req.Amount, req.Bank, req.Name, req.Number)
}

func claimCaptchaText(code string) string {
	return fmt.Sprintf(`%s
----------------- KLAIM BONUS ---------------
%s

Ketik kode captcha di bawah ini untuk klaim bonus harian:

*Kode: %s*

%s`, divider, divider, code, footerBackHome)
}

func taskCaptchaText(task *model.Task, code string) string {
	return fmt.Sprintf(`%s
--------- VERIFIKASI TUGAS ---------
%s

Untuk menyelesaikan tugas *"%s"*,
Ketik kode captcha di bawah ini:

*Kode: %s*

%s`, divider, divider, task.Name, code, footerBackHome)
}

func taskRewardText(reward, balance int64) string {
	return fmt.Sprintf("🎉 Selamat! Anda mendapatkan %d saldo. Saldo baru: %d.", reward, balance)
}

func bonusRewardText(reward, balance int64) string {
	return fmt.Sprintf("🎉 Selamat! Anda mendapatkan bonus harian %d saldo. Saldo baru: %d", reward, balance)
}

func taskListText(tasks []model.Task) string {
	var b strings.Builder
	b.WriteString(divider + "\n---------- 📝 DAFTAR TUGAS ----------\n" + divider + "\n\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "*%d.* %s\n*Hadiah:* Rp.%d | *Durasi:* %d menit\n\n", t.ID, t.Name, t.Reward, t.Duration)
	}
	b.WriteString(divider + "\n*Balas dengan nomor tugas untuk memulai*\n*0* untuk kembali\n*00* untuk ke menu utama\n" + divider)
	return b.String()
}

func activeTaskText(active *model.ActiveTask) string {
	return fmt.Sprintf("Anda masih memiliki tugas aktif: \"%s\". Selesaikan dulu dengan mengetik */selesai %d*",
		active.Task.Name, active.TaskID)
}

func taskStartedText(task model.Task) string {
	return fmt.Sprintf("Tugas dimulai: *%s*\n\n%s\n\n*Link Tugas:* %s\n\nAnda harus menunggu *%d menit*. Setelah itu, ketik */selesai %d* untuk verifikasi dan klaim hadiah Anda.",
		task.Name, task.Description, task.Link, task.Duration, task.ID)
}

func taskNotFinishedText(remainingMinutes int64) string {
	return fmt.Sprintf("Waktu tugas belum selesai. Harap tunggu sekitar *%d menit* lagi.", remainingMinutes)
}

func riddleStartText(question string) string {
	return fmt.Sprintf(`%s
------- 🤔 GAME TEKA TEKI -------
%s

Jawab teka-teki berikut:

*%s*

%s
*Ketik jawaban Anda*
*0* untuk menyerah & kembali
%s`, divider, divider, question, divider, divider)
}

func gameWonText(answer string, reward, balance int64) string {
	return fmt.Sprintf(`%s
🎉 SELAMAT, ANDA BENAR! 🎉
%s

Jawabannya adalah *%s*.
Anda mendapatkan *%d* saldo!

%s
Saldo baru Anda: Rp.%d
%s`, divider, divider, answer, reward, divider, balance, divider)
}

func shopText(items []model.ShopItem) string {
	var b strings.Builder
	b.WriteString(divider + "\nOLSHOP PILIHAN\n" + divider + "\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%d. Belanja disini (%s)\n", item.ID, item.URL)
	}
	b.WriteString("\n" + divider + "\n0. Kembali\n" + divider)
	return b.String()
}

func ownerText(contact string) string {
	return fmt.Sprintf(`%s
---------- 📞 HUBUNGI OWNER ----------
%s

Anda dapat menghubungi owner/admin melalui nomor berikut:

*%s*

%s`, divider, divider, contact, footerBackHome)
}

func userListText(users []*model.User) string {
	var b strings.Builder
	b.WriteString("--- 👥 Daftar Pengguna ---\n")
	for _, u := range users {
		fmt.Fprintf(&b, "*ID:* %s\n*Saldo:* %d\n*Diblokir:* %t\n\n", u.ID, u.Balance, u.IsBlocked)
	}
	return b.String()
}

func adminTaskListText(tasks []model.Task) string {
	var b strings.Builder
	b.WriteString("--- 📝 Semua Tugas ---\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "*ID:* %d | *Bonus:* %d | *Durasi:* %d menit\n*Nama:* %s\n\n", t.ID, t.Reward, t.Duration, t.Name)
	}
	return b.String()
}
